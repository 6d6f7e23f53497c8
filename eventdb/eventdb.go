// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventdb keeps an append-only sqlite log of the events emitted by committed calls.
package eventdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/big"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/skillstake/thor"
)

type EventDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New create or open event db at given path.
func New(path string) (eventDB *EventDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if eventDB == nil {
			db.Close()
		}
	}()
	// a memory db lives as long as its only connection
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &EventDB{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem create an event db in ram.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Close close the event db.
func (db *EventDB) Close() {
	db.db.Close()
}

func (db *EventDB) Path() string {
	return db.path
}

// Insert appends events in one transaction and sets their sequence numbers.
func (db *EventDB) Insert(ctx context.Context, events []*Event) (err error) {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO event(timestamp, address, name, user, amount, fields) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, ev := range events {
		var amount any
		if ev.Amount != nil {
			amount = ev.Amount.String()
		}
		var fields any
		if len(ev.Fields) > 0 {
			data, err := json.Marshal(ev.Fields)
			if err != nil {
				return err
			}
			fields = string(data)
		}
		res, err := stmt.ExecContext(ctx, ev.Timestamp, ev.Address.Bytes(), ev.Name, ev.User.Bytes(), amount, fields)
		if err != nil {
			return errors.Wrap(err, "insert event")
		}
		seq, err := res.LastInsertId()
		if err != nil {
			return err
		}
		ev.Seq = uint64(seq)
	}
	metricEventsInserted().Add(int64(len(events)))
	return tx.Commit()
}

// Filter return events matching filter.
func (db *EventDB) Filter(ctx context.Context, filter *Filter) ([]*Event, error) {
	if filter == nil {
		return db.query(ctx, "SELECT * FROM event ORDER BY seq ASC")
	}
	metricsHandleFilter(filter)

	var args []any
	stmt := "SELECT * FROM event WHERE 1"
	if filter.Range != nil {
		args = append(args, filter.Range.From)
		stmt += " AND timestamp >= ?"
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND timestamp <= ?"
		}
	}
	if filter.Address != nil {
		args = append(args, filter.Address.Bytes())
		stmt += " AND address = ?"
	}
	if filter.User != nil {
		args = append(args, filter.User.Bytes())
		stmt += " AND user = ?"
	}
	if len(filter.Names) > 0 {
		stmt += " AND name IN (?" + strings.Repeat(",?", len(filter.Names)-1) + ")"
		for _, n := range filter.Names {
			args = append(args, n)
		}
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}

	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.query(ctx, stmt, args...)
}

// After returns up to limit events with a sequence number above seq, oldest first.
func (db *EventDB) After(ctx context.Context, seq uint64, limit uint64) ([]*Event, error) {
	return db.query(ctx, "SELECT * FROM event WHERE seq > ? ORDER BY seq ASC LIMIT ?", seq, limit)
}

// LastSeq returns the sequence number of the newest event, 0 when empty.
func (db *EventDB) LastSeq(ctx context.Context) (uint64, error) {
	var seq sql.NullInt64
	if err := db.db.QueryRowContext(ctx, "SELECT MAX(seq) FROM event").Scan(&seq); err != nil {
		return 0, err
	}
	return uint64(seq.Int64), nil
}

func (db *EventDB) query(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		var (
			seq       uint64
			timestamp uint64
			address   []byte
			name      string
			user      []byte
			amount    sql.NullString
			fields    sql.NullString
		)
		if err := rows.Scan(&seq, &timestamp, &address, &name, &user, &amount, &fields); err != nil {
			return nil, err
		}
		ev := &Event{
			Seq:       seq,
			Timestamp: timestamp,
			Address:   thor.BytesToAddress(address),
			Name:      name,
			User:      thor.BytesToAddress(user),
		}
		if amount.Valid {
			v, ok := new(big.Int).SetString(amount.String, 10)
			if !ok {
				return nil, errors.Errorf("corrupted amount %q of event %d", amount.String, seq)
			}
			ev.Amount = v
		}
		if fields.Valid {
			if err := json.Unmarshal([]byte(fields.String), &ev.Fields); err != nil {
				return nil, errors.Wrapf(err, "corrupted fields of event %d", seq)
			}
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
