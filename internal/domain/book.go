package domain

import (
	"time"

	"github.com/google/uuid"
)

// Book is a catalog entry with a finite number of physical copies.
// AvailableCopies never goes below zero: checkout decrements it, return
// increments it, both inside the same transaction that mutates the loan.
type Book struct {
	ID              uuid.UUID
	Title           string
	Author          string
	Description     *string
	ISBN            *string
	PublishedYear   *int
	AvailableCopies int
	CoverImageURL   *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
