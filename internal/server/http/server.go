// Package httpserver exposes the account/card JSON API.
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/asmirnov/cardvault/internal/errs"
	"github.com/asmirnov/cardvault/internal/model"
	"github.com/asmirnov/cardvault/internal/service"
	"github.com/asmirnov/cardvault/internal/validate"
)

// API wires services into HTTP handlers.
type API struct {
	accounts service.AccountService
	cards    service.CardService
}

// New constructs the API with injected services.
func New(accounts service.AccountService, cards service.CardService) *API {
	return &API{accounts: accounts, cards: cards}
}

// AppendRoutes mounts all API routes on the router.
func (a *API) AppendRoutes(r chi.Router) {
	r.Route("/accounts", func(r chi.Router) {
		r.Post("/", a.createAccount)
		r.Post("/authenticate", a.authenticate)
		r.Post("/password", a.updatePassword)
		r.Route("/{accountID}", func(r chi.Router) {
			r.Delete("/", a.deleteAccount)
			r.Get("/cards", a.listCards)
			r.Post("/cards", a.createCard)
		})
	})
	r.Route("/cards", func(r chi.Router) {
		r.Patch("/{cardID}", a.updateCard)
		r.Delete("/{cardID}", a.deleteCard)
		r.Post("/full-update", a.updateFullCard)
	})
}

type credentialsRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type updatePasswordRequest struct {
	Login       string `json:"login"`
	Password    string `json:"password"`
	NewPassword string `json:"new_password"`
}

type createCardRequest struct {
	Last4Digit string `json:"last4digit"`
	Code       string `json:"code"`
	Type       string `json:"type"`
}

// patchCardRequest distinguishes absent fields (nil) from present ones.
type patchCardRequest struct {
	AccountID  *int64  `json:"account_id"`
	Last4Digit *string `json:"last4digit"`
	Code       *string `json:"code"`
	Type       *string `json:"type"`
}

type fullUpdateRequest struct {
	Account updatePasswordRequest `json:"account"`
	Card    struct {
		ID         int64  `json:"id"`
		Last4Digit string `json:"last4digit"`
		Code       string `json:"code"`
		Type       string `json:"type"`
	} `json:"card"`
}

type accountResponse struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
}

type idResponse struct {
	ID int64 `json:"id"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type cardResponse struct {
	ID         int64  `json:"id"`
	Last4Digit string `json:"last4digit"`
	Code       string `json:"code"`
	Type       string `json:"type"`
}

func (a *API) authenticate(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	acc, err := a.accounts.Authenticate(r.Context(), req.Login, req.Password, r.RemoteAddr)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accountResponse{ID: acc.ID, Login: acc.Login})
}

func (a *API) createAccount(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	id, err := a.accounts.Create(r.Context(), req.Login, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (a *API) deleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "accountID")
	if err != nil {
		httpError(w, http.StatusBadRequest, "bad account id")
		return
	}
	if err := a.accounts.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (a *API) updatePassword(w http.ResponseWriter, r *http.Request) {
	var req updatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := a.accounts.UpdatePassword(r.Context(), req.Login, req.Password, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (a *API) listCards(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathID(r, "accountID")
	if err != nil {
		httpError(w, http.StatusBadRequest, "bad account id")
		return
	}
	var cardID *int64
	if raw := r.URL.Query().Get("card_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpError(w, http.StatusBadRequest, "bad card_id")
			return
		}
		cardID = &id
	}
	cards, err := a.cards.List(r.Context(), accountID, cardID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]cardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardResponse{ID: c.ID, Last4Digit: c.Last4Digit, Code: c.Code, Type: c.Type})
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) createCard(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathID(r, "accountID")
	if err != nil {
		httpError(w, http.StatusBadRequest, "bad account id")
		return
	}
	var req createCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	id, err := a.cards.Create(r.Context(), accountID, req.Last4Digit, req.Code, req.Type)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (a *API) updateCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "cardID")
	if err != nil {
		httpError(w, http.StatusBadRequest, "bad card id")
		return
	}
	var req patchCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	patch := model.CardPatch{
		AccountID:  req.AccountID,
		Last4Digit: req.Last4Digit,
		Code:       req.Code,
		Type:       req.Type,
	}
	if err := a.cards.Update(r.Context(), id, patch); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (a *API) deleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "cardID")
	if err != nil {
		httpError(w, http.StatusBadRequest, "bad card id")
		return
	}
	if err := a.cards.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (a *API) updateFullCard(w http.ResponseWriter, r *http.Request) {
	var req fullUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	err := a.cards.UpdateFull(r.Context(), service.FullCardUpdate{
		Login:       req.Account.Login,
		Password:    req.Account.Password,
		NewPassword: req.Account.NewPassword,
		CardID:      req.Card.ID,
		Last4Digit:  req.Card.Last4Digit,
		Code:        req.Card.Code,
		Type:        req.Card.Type,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func httpError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeError maps domain errors to HTTP statuses. Internal details never
// reach the client.
func writeError(w http.ResponseWriter, err error) {
	var ve *validate.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: ve.Error(), Field: ve.Field})
		return
	}
	switch {
	case errors.Is(err, errs.ErrEmptyUpdate):
		httpError(w, http.StatusBadRequest, "update carries no fields")
	case errors.Is(err, errs.ErrUnauthorized):
		httpError(w, http.StatusUnauthorized, "account does not exist")
	case errors.Is(err, errs.ErrNotFound):
		httpError(w, http.StatusNotFound, "account does not exist")
	case errors.Is(err, errs.ErrAlreadyExists):
		httpError(w, http.StatusConflict, "that login already exists")
	case errors.Is(err, errs.ErrRateLimited):
		httpError(w, http.StatusTooManyRequests, "too many attempts")
	default:
		httpError(w, http.StatusInternalServerError, "internal error")
	}
}
