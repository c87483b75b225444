package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vancomm/buscaminas/internal/mines"
)

type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

func (pg *Postgres) Close() {
	pg.db.Close()
}

func (pg *Postgres) CreateSession(ctx context.Context, s *mines.GameSession) (string, error) {
	state, err := s.Bytes()
	if err != nil {
		return "", err
	}
	sessionId := NewSessionId()
	config := s.Config()
	_, err = pg.db.Exec(ctx, `
		insert into game_session (
			game_session_id, "rows", cols, mine_count, status, started_at, ended_at, state
		)
		values (
			@game_session_id, @rows, @cols, @mine_count, @status, @started_at, @ended_at, @state
		);`,
		pgx.NamedArgs{
			"game_session_id": sessionId,
			"rows":            config.Rows,
			"cols":            config.Cols,
			"mine_count":      config.MineCount,
			"status":          s.Status.String(),
			"started_at":      s.StartedAt,
			"ended_at":        endedAt(s),
			"state":           state,
		})
	if err != nil {
		return "", fmt.Errorf("unable to insert game session: %w", err)
	}
	return sessionId, nil
}

func (pg *Postgres) FetchSession(
	ctx context.Context, sessionId string, opts ...mines.SessionOption,
) (*mines.GameSession, error) {
	var state []byte
	err := pg.db.QueryRow(ctx, `
		select state
		from game_session
		where game_session_id = $1;`,
		sessionId,
	).Scan(&state)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return mines.DecodeSession(state, opts...)
}

func (pg *Postgres) UpdateSession(ctx context.Context, sessionId string, s *mines.GameSession) error {
	state, err := s.Bytes()
	if err != nil {
		return err
	}
	tag, err := pg.db.Exec(ctx, `
		update game_session
		set status = @status
			, ended_at = @ended_at
			, state = @state
			, updated_at = now()
		where game_session_id = @game_session_id;`,
		pgx.NamedArgs{
			"game_session_id": sessionId,
			"status":          s.Status.String(),
			"ended_at":        endedAt(s),
			"state":           state,
		})
	if err != nil {
		return fmt.Errorf("unable to update game session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const recordsQuery = `
	select
		game_session_id
		, nickname
		, "rows"
		, cols
		, mine_count
		, extract('epoch' from ended_at - started_at)::float8 playtime
		, ended_at
	from record
		join game_session using (game_session_id)
	where
		status = 'won'
		and ended_at is not null`

func (pg *Postgres) Records(ctx context.Context, opts ...RecordsOption) ([]Record, error) {
	filters, err := newRecordFilters(opts)
	if err != nil {
		return nil, err
	}

	sql := recordsQuery
	whereClause, args := filters.WhereClause()
	if whereClause != "" {
		sql += " and " + whereClause
	}
	sql += " order by playtime, ended_at"
	if filters.limit > 0 {
		sql += " limit @limit"
		args["limit"] = filters.limit
	}

	rows, err := pg.db.Query(ctx, sql, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Record])
}

func (pg *Postgres) ClaimRecord(ctx context.Context, sessionId, nickname string) (*Record, error) {
	if !validNickname(nickname) {
		return nil, ErrNickname
	}

	var record *Record
	err := pgx.BeginFunc(ctx, pg.db, func(tx pgx.Tx) error {
		var status string
		err := tx.QueryRow(ctx,
			"select status from game_session where game_session_id = $1 for update;",
			sessionId,
		).Scan(&status)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if status != mines.Won.String() {
			return ErrNotWon
		}

		_, err = tx.Exec(ctx,
			"insert into record (game_session_id, nickname) values (@game_session_id, @nickname);",
			pgx.NamedArgs{"game_session_id": sessionId, "nickname": nickname},
		)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrAlreadyClaimed
		}
		if err != nil {
			return err
		}

		rows, _ := tx.Query(ctx,
			recordsQuery+" and game_session_id = $1;",
			sessionId,
		)
		record, err = pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Record])
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}
