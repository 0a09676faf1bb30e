// Package domain holds the request and response shapes of the verifier
// service and the ports its service and repos implement
package domain

import (
	"encoding/json"
	"time"

	perr "ballotaudit/internal/platform/errors"

	"ballotaudit/internal/core/verify"
)

// VerifyRequest asks for one auditable ballot to be checked against the
// ballot id the voter was shown
type VerifyRequest struct {
	Ballot   json.RawMessage `json:"ballot" validate:"required" swaggertype:"object"`
	BallotID string          `json:"ballot_id" validate:"required,max=256" example:"3f1c...e9"`
	// Lang selects the language of rendered diagnostics, e.g. "es" or an
	// Accept-Language value. Empty means no rendering
	Lang string `json:"lang,omitempty" validate:"omitempty,max=64" example:"es"`
	// IncludeUnverified returns decoded contests even when the ballot id does not match
	IncludeUnverified bool `json:"include_unverified,omitempty"`
}

// VerifyResponse wraps the engine outcome with rendered diagnostics
type VerifyResponse struct {
	Outcome verify.Outcome `json:"outcome"`
	// Withheld is true when contests were dropped because the id did not match
	Withheld bool   `json:"withheld,omitempty"`
	Lang     string `json:"lang,omitempty"`
	// Messages maps contest id to its rendered diagnostics
	Messages map[string][]string `json:"messages,omitempty"`
}

// BatchRequest verifies many ballots in one call
type BatchRequest struct {
	Items []VerifyRequest `json:"items" validate:"required,min=1,dive"`
}

// BatchItem is the result of one batch entry; exactly one of Result and Error is set
type BatchItem struct {
	Index  int             `json:"index"`
	Result *VerifyResponse `json:"result,omitempty"`
	Error  *perr.Wire      `json:"error,omitempty"`
}

// BatchResponse lists results in request order with a tally
type BatchResponse struct {
	Items      []BatchItem `json:"items"`
	Matched    int         `json:"matched"`
	Mismatched int         `json:"mismatched"`
	Failed     int         `json:"failed"`
}

// SampleResponse carries a ready-made auditable ballot and the id it verifies against
type SampleResponse struct {
	Ballot   json.RawMessage `json:"ballot" swaggertype:"object"`
	BallotID string          `json:"ballot_id"`
}

// SpoiledResponse answers whether a ballot hash was ever decoded here
type SpoiledResponse struct {
	BallotHash string     `json:"ballot_hash"`
	Spoiled    bool       `json:"spoiled"`
	ElectionID string     `json:"election_id,omitempty"`
	FirstSeen  *time.Time `json:"first_seen,omitempty"`
	LastSeen   *time.Time `json:"last_seen,omitempty"`
	Count      int        `json:"count"`
}
