package database

import "gorm.io/gorm"

// Trade is one binary option order and its settlement.
type Trade struct {
	gorm.Model
	TicketID        string `json:"ticketId" gorm:"size:200"`
	Asset           string `json:"asset" gorm:"size:200"`
	Direction       string `json:"direction" gorm:"size:10"`
	Amount          float64
	ExpirySeconds   int
	EntryPrice      float64
	OpenTime        int64
	Pattern         string `json:"pattern" gorm:"size:50"`
	Confidence      float64
	BacktestWinRate float64
	Status          string `json:"status" gorm:"size:20"`
	Result          string `json:"result" gorm:"size:10"`
	Profit          float64
}
