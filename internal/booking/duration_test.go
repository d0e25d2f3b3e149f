package booking

import (
	"testing"
	"time"
)

func TestBillableHours(t *testing.T) {
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		d     time.Duration
		hours float64
	}{
		{name: "one hour", d: time.Hour, hours: 1},
		{name: "ninety minutes", d: 90 * time.Minute, hours: 1.5},
		{name: "eighty minutes rounds to two places", d: 80 * time.Minute, hours: 1.33},
		{name: "fractional seconds ignored", d: time.Hour + 900*time.Millisecond, hours: 1},
		{name: "more than a day", d: 26*time.Hour + 30*time.Minute, hours: 26.5},
		{name: "exact tie rounds half up", d: time.Hour + 7*time.Minute + 30*time.Second, hours: 1.13},
		{name: "half up rounding", d: time.Hour + 18*time.Second, hours: 1.01},
		{name: "non positive", d: -time.Hour, hours: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BillableHours(base, base.Add(tt.d))
			if got != tt.hours {
				t.Fatalf("BillableHours(%v) = %v, want %v", tt.d, got, tt.hours)
			}
		})
	}
}

func TestBaseCost(t *testing.T) {
	start := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		d     time.Duration
		price int64
		cost  int64
	}{
		{name: "whole hours", d: 2 * time.Hour, price: 1000, cost: 2000},
		{name: "ninety minutes", d: 90 * time.Minute, price: 1000, cost: 1500},
		{name: "rounded hours times price", d: 80 * time.Minute, price: 1000, cost: 1330},
		{name: "truncates fraction", d: 80 * time.Minute, price: 1, cost: 1},
		{name: "large price", d: 3 * time.Hour, price: 500_000, cost: 1_500_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BaseCost(start, start.Add(tt.d), tt.price)
			if got != tt.cost {
				t.Fatalf("BaseCost = %d, want %d", got, tt.cost)
			}
		})
	}
}
