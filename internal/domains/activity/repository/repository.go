package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"hostel/infras/otel"
	"hostel/internal/domains/activity/model"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	"hostel/shared/logger"
	"strings"

	"github.com/jmoiron/sqlx"
)

const (
	selectColumns = "id, hostel_id, booking_id, action, amount, method, request_id, created_at, created_by"
	insertQuery   = "INSERT INTO " + model.TableName + " (" + selectColumns + ") " +
		"VALUES (:id, :hostel_id, :booking_id, :action, :amount, :method, :request_id, :created_at, :created_by)"
)

var sortableColumns = []string{model.FieldCreatedAt, model.FieldAction, model.FieldBookingID}

type Activity interface {
	Insert(ctx context.Context, entry model.Entry) error
	GetAll(ctx context.Context, hostelID int64, params gDto.QueryParams) ([]model.Entry, error)
	Count(ctx context.Context, hostelID int64) (int, error)
}

type repositoryImpl struct {
	db   *sqlx.DB
	otel otel.Otel
}

func New(db *sqlx.DB, otel otel.Otel) Activity {
	return &repositoryImpl{
		db:   db,
		otel: otel,
	}
}

func (r *repositoryImpl) Insert(ctx context.Context, entry model.Entry) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.Insert", constant.OtelRepositoryScopeName, model.EntityName))
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, insertQuery)

	if _, err := r.db.NamedExecContext(ctx, insertQuery, entry); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to insert data (%s): %w", model.EntityName, err)
	}

	return nil
}

// GetAll lists journal entries newest first. hostelID 0 lists every hostel.
func (r *repositoryImpl) GetAll(ctx context.Context, hostelID int64, params gDto.QueryParams) ([]model.Entry, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.GetAll", constant.OtelRepositoryScopeName, model.EntityName))
	defer scope.End()

	where, args := whereHostel(hostelID)

	query := fmt.Sprintf("SELECT %s FROM %s %s ORDER BY %s", selectColumns, model.TableName, where, params.OrderBy(sortableColumns...))
	if params.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, params.Limit, params.Offset())
	}

	query = r.db.Rebind(query)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var entries []model.Entry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get all data (%s): %w", model.EntityName, err)
	}

	return entries, nil
}

func (r *repositoryImpl) Count(ctx context.Context, hostelID int64) (int, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.Count", constant.OtelRepositoryScopeName, model.EntityName))
	defer scope.End()

	where, args := whereHostel(hostelID)

	query := r.db.Rebind(strings.TrimSpace(fmt.Sprintf("SELECT COUNT(%s) FROM %s %s", model.FieldID, model.TableName, where)))
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to count data (%s): %w", model.EntityName, err)
	}

	return count, nil
}

func whereHostel(hostelID int64) (string, []any) {
	if hostelID <= 0 {
		return "", nil
	}

	return "WHERE " + model.FieldHostelID + " = ?", []any{hostelID}
}
