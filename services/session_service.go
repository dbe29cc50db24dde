package services

import (
	"sync"

	"gitlab.com/aoterocom/AOBinarybot/models"
)

// SessionService keeps the mutable state of a trading session: active
// trades per asset, the settled history in settle order and the running
// counters the dashboard shows.
type SessionService struct {
	ActiveTrades  map[string][]*models.Trade
	SettledTrades []*models.Trade

	activeTradesMutex  *sync.Mutex
	settledTradesMutex *sync.Mutex

	totalTrades int
	wins        int
	losses      int
	profitLoss  float64
}

func NewSessionService() *SessionService {
	return &SessionService{
		ActiveTrades:       make(map[string][]*models.Trade),
		SettledTrades:      []*models.Trade{},
		activeTradesMutex:  &sync.Mutex{},
		settledTradesMutex: &sync.Mutex{},
	}
}

func (ss *SessionService) AddActiveTrade(trade *models.Trade) {
	ss.activeTradesMutex.Lock()
	ss.ActiveTrades[trade.Asset] = append(ss.ActiveTrades[trade.Asset], trade)
	ss.activeTradesMutex.Unlock()
}

// SettleTrade marks the trade finished, moves it to the settled history and
// updates the session counters.
func (ss *SessionService) SettleTrade(trade *models.Trade, result models.TradeResult, profit float64) {
	trade.Settle(result, profit)

	ss.activeTradesMutex.Lock()
	assetTrades := ss.ActiveTrades[trade.Asset]
	for i, activeTrade := range assetTrades {
		if activeTrade == trade {
			ss.ActiveTrades[trade.Asset] = append(assetTrades[:i], assetTrades[i+1:]...)
			break
		}
	}
	ss.activeTradesMutex.Unlock()

	ss.settledTradesMutex.Lock()
	ss.SettledTrades = append(ss.SettledTrades, trade)
	ss.totalTrades++
	if result == models.TradeResultWin {
		ss.wins++
	} else {
		ss.losses++
	}
	ss.profitLoss += profit
	ss.settledTradesMutex.Unlock()
}

// DropActiveTrade removes the trade from the active book without recording
// an outcome, for trades whose settlement could not be obtained. The trade
// keeps its executed status so a database recovery can pick it back up.
func (ss *SessionService) DropActiveTrade(trade *models.Trade) {
	ss.activeTradesMutex.Lock()
	assetTrades := ss.ActiveTrades[trade.Asset]
	for i, activeTrade := range assetTrades {
		if activeTrade == trade {
			ss.ActiveTrades[trade.Asset] = append(assetTrades[:i], assetTrades[i+1:]...)
			break
		}
	}
	ss.activeTradesMutex.Unlock()
}

func (ss *SessionService) HasActiveTrade(asset string) bool {
	ss.activeTradesMutex.Lock()
	hasActiveTrade := len(ss.ActiveTrades[asset]) > 0
	ss.activeTradesMutex.Unlock()
	return hasActiveTrade
}

func (ss *SessionService) AllActiveTrades() []*models.Trade {
	ss.activeTradesMutex.Lock()
	var activeTrades []*models.Trade
	for _, assetTrades := range ss.ActiveTrades {
		activeTrades = append(activeTrades, assetTrades...)
	}
	ss.activeTradesMutex.Unlock()
	return activeTrades
}

func (ss *SessionService) ActiveTradesCount() int {
	count := 0
	ss.activeTradesMutex.Lock()
	for _, assetTrades := range ss.ActiveTrades {
		count += len(assetTrades)
	}
	ss.activeTradesMutex.Unlock()
	return count
}

func (ss *SessionService) TotalTrades() int {
	ss.settledTradesMutex.Lock()
	totalTrades := ss.totalTrades
	ss.settledTradesMutex.Unlock()
	return totalTrades
}

func (ss *SessionService) Wins() int {
	ss.settledTradesMutex.Lock()
	wins := ss.wins
	ss.settledTradesMutex.Unlock()
	return wins
}

func (ss *SessionService) Losses() int {
	ss.settledTradesMutex.Lock()
	losses := ss.losses
	ss.settledTradesMutex.Unlock()
	return losses
}

func (ss *SessionService) ProfitLoss() float64 {
	ss.settledTradesMutex.Lock()
	profitLoss := ss.profitLoss
	ss.settledTradesMutex.Unlock()
	return profitLoss
}

func (ss *SessionService) WinRate() float64 {
	ss.settledTradesMutex.Lock()
	totalTrades := ss.totalTrades
	wins := ss.wins
	ss.settledTradesMutex.Unlock()

	if totalTrades == 0 {
		return 0.0
	}
	return float64(wins) / float64(totalTrades) * 100
}

func (ss *SessionService) LastSettledTrade(asset string) *models.Trade {
	ss.settledTradesMutex.Lock()
	defer ss.settledTradesMutex.Unlock()
	for i := len(ss.SettledTrades) - 1; i >= 0; i-- {
		if ss.SettledTrades[i].Asset == asset {
			return ss.SettledTrades[i]
		}
	}
	return nil
}

// RecentSettledTrades returns up to limit trades, newest first.
func (ss *SessionService) RecentSettledTrades(limit int) []*models.Trade {
	ss.settledTradesMutex.Lock()
	defer ss.settledTradesMutex.Unlock()

	var recentTrades []*models.Trade
	for i := len(ss.SettledTrades) - 1; i >= 0 && len(recentTrades) < limit; i-- {
		recentTrades = append(recentTrades, ss.SettledTrades[i])
	}
	return recentTrades
}
