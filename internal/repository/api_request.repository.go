package repository

import (
	"database/sql"
	"fmt"
	"investorly/internal/domain"

	"github.com/google/uuid"
)

type ApiRequestRepository interface {
	Add(ar domain.ApiRequest) (*domain.ApiRequest, error)
	Update(ar domain.ApiRequest) error
	Get(requestID uuid.UUID) (*domain.ApiRequest, error)
}

type apiRequestRepositoryHandler struct {
	Db *sql.DB
}

func NewApiRequestRepository(db *sql.DB) ApiRequestRepository {
	return apiRequestRepositoryHandler{Db: db}
}

func (h apiRequestRepositoryHandler) Add(ar domain.ApiRequest) (*domain.ApiRequest, error) {
	ar.RequestID = uuid.New()
	ar.StartTs = ar.StartTs.UTC()

	_, err := h.Db.Exec(
		`INSERT INTO api_request (request_id, user_id, ip_address, method, route, request_body, start_ts)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ar.RequestID.String(),
		ar.UserID,
		ar.IPAddress,
		ar.Method,
		ar.Route,
		ar.RequestBody,
		ar.StartTs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert API request: %w", err)
	}

	return &ar, nil
}

func (h apiRequestRepositoryHandler) Update(ar domain.ApiRequest) error {
	_, err := h.Db.Exec(
		`UPDATE api_request SET duration_ms = $1, status_code = $2, response_body = $3 WHERE request_id = $4`,
		ar.DurationMs,
		ar.StatusCode,
		ar.ResponseBody,
		ar.RequestID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update API request: %w", err)
	}

	return nil
}

func (h apiRequestRepositoryHandler) Get(requestID uuid.UUID) (*domain.ApiRequest, error) {
	row := h.Db.QueryRow(
		`SELECT request_id, user_id, ip_address, method, route, request_body, start_ts, duration_ms, status_code, response_body
		FROM api_request WHERE request_id = $1`,
		requestID.String(),
	)

	var (
		id         string
		durationMs sql.NullInt64
		statusCode sql.NullInt32
		out        domain.ApiRequest
	)
	err := row.Scan(&id, &out.UserID, &out.IPAddress, &out.Method, &out.Route, &out.RequestBody, &out.StartTs, &durationMs, &statusCode, &out.ResponseBody)
	if err != nil {
		return nil, fmt.Errorf("failed to get API request %s: %w", requestID, err)
	}
	out.RequestID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("failed to parse request id %s: %w", id, err)
	}
	if durationMs.Valid {
		out.DurationMs = &durationMs.Int64
	}
	if statusCode.Valid {
		out.StatusCode = &statusCode.Int32
	}

	return &out, nil
}
