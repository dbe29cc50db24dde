package strategies

import (
	"fmt"

	"gitlab.com/aoterocom/AOBinarybot/interfaces"
)

func StrategyFactory(strategyName string, interval string) (interfaces.Strategy, error) {

	switch strategyName {
	case "fiveCandleStrategy":
		fiveCandleStrategy := NewFiveCandleStrategy(interval)
		return interfaces.Strategy(&fiveCandleStrategy), nil
	case "alwaysEnterStrategy":
		return interfaces.Strategy(&AlwaysEnterStrategy{}), nil
	default:
		return nil, fmt.Errorf("%s is not a known strategy", strategyName)
	}

}
