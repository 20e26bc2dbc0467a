package domain

import "time"

// StoreObservation is one store-photo row from the warehouse report.
// Created by the report fetch, never mutated afterwards.
type StoreObservation struct {
	StoreID         string
	BusinessID      string
	BusinessName    string
	BusinessLine    string
	PickModel       string
	StoreHours      string // hours of record, free-form text
	ImageURL        string
	ImageConfidence float64
	ObservedAt      time.Time // zero when the feed carries no timestamp
}
