package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/vancomm/buscaminas/internal/mines"
)

type RecordFilters struct {
	nickname *string
	config   *mines.GameConfig
	limit    int
}

func (f RecordFilters) WhereClause() (string, pgx.NamedArgs) {
	args := pgx.NamedArgs{}
	whereClauses := []string{}
	if f.nickname != nil {
		args["nickname"] = *f.nickname
		whereClauses = append(whereClauses, "nickname = @nickname")
	}
	if f.config != nil {
		args["rows"] = f.config.Rows
		args["cols"] = f.config.Cols
		args["mine_count"] = f.config.MineCount
		whereClauses = append(
			whereClauses,
			`"rows" = @rows`,
			"cols = @cols",
			"mine_count = @mine_count",
		)
	}

	if len(whereClauses) == 0 {
		return "", args
	}
	return strings.Join(whereClauses, " and "), args
}

func (f RecordFilters) match(r Record) bool {
	if f.nickname != nil && r.Nickname != *f.nickname {
		return false
	}
	if f.config != nil && r.Config() != *f.config {
		return false
	}
	return true
}

type RecordsOption = func(*RecordFilters) error

func RecordsForNickname(nickname string) RecordsOption {
	return func(f *RecordFilters) error {
		f.nickname = &nickname
		return nil
	}
}

func RecordsForConfig(config mines.GameConfig) RecordsOption {
	return func(f *RecordFilters) error {
		f.config = &config
		return nil
	}
}

func RecordsLimit(limit int) RecordsOption {
	return func(f *RecordFilters) error {
		if limit <= 0 {
			return errors.New("records limit must be positive")
		}
		f.limit = limit
		return nil
	}
}

func newRecordFilters(opts []RecordsOption) (*RecordFilters, error) {
	filters := &RecordFilters{}
	for _, op := range opts {
		if err := op(filters); err != nil {
			return nil, err
		}
	}
	return filters, nil
}
