// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MoneySpace Contributors

package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/shopspring/decimal"

	"github.com/moneyspace/moneyspace/internal/space"
	"github.com/moneyspace/moneyspace/pkg/errutil"
)

// spacePayload is the non-secret space projection returned by the API.
type spacePayload struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Currency       string    `json:"currency"`
	CurrencySymbol string    `json:"currency_symbol"`
	Currencies     []string  `json:"currencies"`
	CreatedAt      time.Time `json:"created_at"`
}

func toSpacePayload(sp *space.Space) spacePayload {
	return spacePayload{
		ID:             sp.ID.String(),
		Name:           sp.Name,
		Currency:       sp.Currency(),
		CurrencySymbol: space.CurrencySymbol(sp.Currency()),
		Currencies:     sp.Currencies,
		CreatedAt:      sp.CreatedAt,
	}
}

type categoryPayload struct {
	ID       string `json:"id"`
	SpaceID  string `json:"space_id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Icon     string `json:"icon"`
	Color    string `json:"color"`
	IsSystem bool   `json:"is_system"`
}

func toCategoryPayload(c *space.Category) categoryPayload {
	return categoryPayload{
		ID:       c.ID.String(),
		SpaceID:  c.SpaceID.String(),
		Name:     c.Name,
		Type:     string(c.Type),
		Icon:     space.ResolveIcon(c.Icon),
		Color:    c.Color,
		IsSystem: c.IsSystem,
	}
}

type transactionPayload struct {
	ID          string          `json:"id"`
	SpaceID     string          `json:"space_id"`
	CategoryID  string          `json:"category_id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func toTransactionPayload(tx *space.Transaction) transactionPayload {
	return transactionPayload{
		ID:          tx.ID.String(),
		SpaceID:     tx.SpaceID.String(),
		CategoryID:  tx.CategoryID.String(),
		Type:        string(tx.Type),
		Amount:      tx.Amount,
		Currency:    tx.Currency,
		Description: tx.Description,
		Date:        tx.Date,
		Notes:       tx.Notes,
		CreatedAt:   tx.CreatedAt,
	}
}

// decodeBody parses a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return oops.Code("INVALID_REQUEST").Errorf("invalid request body")
	}
	return nil
}

// parseULID parses an id from a request field or query parameter.
func parseULID(field, value string) (ulid.ULID, error) {
	if value == "" {
		return ulid.ULID{}, oops.Code("INVALID_REQUEST").
			With("field", field).
			Errorf("%s is required", field)
	}
	id, err := ulid.Parse(value)
	if err != nil {
		return ulid.ULID{}, oops.Code("INVALID_REQUEST").
			With("field", field).
			Errorf("%s is not a valid id", field)
	}
	return id, nil
}

func (s *Server) handleCreateSpace(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SpaceName string `json:"spaceName"`
		Password  string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	sp, err := s.lifecycle.Create(r.Context(), req.SpaceName, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if s.metrics != nil {
		s.metrics.SpacesCreated.Inc()
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"space":   toSpacePayload(sp),
	})
}

func (s *Server) handleVerifySpace(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SpaceID  string `json:"spaceId"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	id, err := parseULID("spaceId", req.SpaceID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if req.Password == "" {
		s.writeError(w, oops.Code("INVALID_REQUEST").
			With("field", "password").
			Errorf("password is required"))
		return
	}

	sp, _, token, err := s.lifecycle.Verify(r.Context(), id, req.Password)
	if err != nil {
		// Only actual password mismatches count as verify failures.
		if s.metrics != nil && errutil.Code(err) == "SPACE_INVALID_CREDENTIALS" {
			s.metrics.VerifyFailures.Inc()
		}
		s.writeError(w, err)
		return
	}

	resp := map[string]any{
		"success": true,
		"space":   toSpacePayload(sp),
	}
	// Grant persistence is best effort; a missing token is not an error.
	if token != "" {
		resp["grantToken"] = token
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SpaceID     string `json:"spaceId"`
		NewPassword string `json:"newPassword"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	id, err := parseULID("spaceId", req.SpaceID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.lifecycle.ResetPassword(r.Context(), id, req.NewPassword); err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "password reset successfully",
	})
}

func (s *Server) handleUpdateSpace(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID         string   `json:"id"`
		Name       string   `json:"name"`
		Currency   string   `json:"currency"`
		Currencies []string `json:"currencies"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	id, err := parseULID("id", req.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	// Single-currency clients send "currency"; the list form wins when both
	// are present.
	currencies := req.Currencies
	if len(currencies) == 0 && req.Currency != "" {
		currencies = []string{req.Currency}
	}

	sp, err := s.lifecycle.Update(r.Context(), id, req.Name, currencies)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"space":   toSpacePayload(sp),
	})
}

func (s *Server) handleDeleteSpace(w http.ResponseWriter, r *http.Request) {
	id, err := parseULID("id", r.URL.Query().Get("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.lifecycle.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleGetSpace(w http.ResponseWriter, r *http.Request) {
	id, err := parseULID("id", r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	sp, err := s.directory.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"space":   toSpacePayload(sp),
	})
}

func (s *Server) handleListCurrencies(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"currencies": space.CommonCurrencies,
	})
}

func (s *Server) handleListSpaces(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.directory.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"spaces":  summaries,
	})
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	spaceID, err := parseULID("spaceId", r.URL.Query().Get("spaceId"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	typeFilter := space.TransactionType(r.URL.Query().Get("type"))

	cats, err := s.categories.List(r.Context(), spaceID, typeFilter)
	if err != nil {
		s.writeError(w, err)
		return
	}

	payload := make([]categoryPayload, 0, len(cats))
	for _, c := range cats {
		payload = append(payload, toCategoryPayload(c))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"categories": payload,
	})
}

// transactionRequest is the shared create/update request body.
type transactionRequest struct {
	ID          string          `json:"id"`
	SpaceID     string          `json:"spaceId"`
	CategoryID  string          `json:"categoryId"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Notes       string          `json:"notes"`
}

func (req transactionRequest) toInput() (space.NewTransactionInput, error) {
	spaceID, err := parseULID("spaceId", req.SpaceID)
	if err != nil {
		return space.NewTransactionInput{}, err
	}
	categoryID, err := parseULID("categoryId", req.CategoryID)
	if err != nil {
		return space.NewTransactionInput{}, err
	}
	return space.NewTransactionInput{
		SpaceID:     spaceID,
		CategoryID:  categoryID,
		Type:        space.TransactionType(req.Type),
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
		Date:        req.Date,
		Notes:       req.Notes,
	}, nil
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	in, err := req.toInput()
	if err != nil {
		s.writeError(w, err)
		return
	}

	tx, err := s.transactions.Create(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"transaction": toTransactionPayload(tx),
	})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	spaceID, err := parseULID("spaceId", r.URL.Query().Get("spaceId"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	txs, err := s.transactions.List(r.Context(), spaceID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	payload := make([]transactionPayload, 0, len(txs))
	for _, tx := range txs {
		payload = append(payload, toTransactionPayload(tx))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"transactions": payload,
	})
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	id, err := parseULID("id", req.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	in, err := req.toInput()
	if err != nil {
		s.writeError(w, err)
		return
	}

	tx, err := s.transactions.Update(r.Context(), id, in)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"transaction": toTransactionPayload(tx),
	})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parseULID("id", r.URL.Query().Get("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.transactions.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
