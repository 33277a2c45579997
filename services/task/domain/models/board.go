package models

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

// BoardColumn is a value object naming a kanban column, e.g. "todo" or "review".
// Labels are lowercase slugs so they can be used verbatim in URLs and cache keys.
type BoardColumn string

const maxBoardColumnLength = 50

// NewBoardColumn validates s as a board column label.
func NewBoardColumn(s string) (BoardColumn, error) {
	if s == "" {
		return "", fmt.Errorf("board column must not be empty")
	}
	if len(s) > maxBoardColumnLength {
		return "", fmt.Errorf("board column must not exceed %d characters", maxBoardColumnLength)
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return "", fmt.Errorf("board column %q may only contain a-z, 0-9, '_' and '-'", s)
		}
	}
	return BoardColumn(s), nil
}

// String returns the underlying string value.
func (c BoardColumn) String() string {
	return string(c)
}

// Partition identifies one ordered sequence on the board: all tasks of one
// owner that sit in the same column.
type Partition struct {
	OwnerID uuid.UUID
	Column  BoardColumn
}

// LockKey is the stable text key used to serialize writers of a partition.
func (p Partition) LockKey() string {
	return "board:" + p.OwnerID.String() + ":" + p.Column.String()
}

// Unbounded is the upper bound of a PositionShift that extends to the end of
// its partition.
const Unbounded = math.MaxInt32

// PositionShift adds Delta to the position of every task in Partition whose
// position lies in [From, To].
type PositionShift struct {
	Partition Partition
	From      int
	To        int
	Delta     int
}

// ColumnStatus pairs a board column with the status it forces on tasks.
type ColumnStatus struct {
	Column BoardColumn
	Status Status
}

// ColumnStatusMap is the ordered column→status table supplied by the
// application. Columns absent from the table leave a task's status untouched.
type ColumnStatusMap struct {
	order    []BoardColumn
	statuses map[BoardColumn]Status
	done     BoardColumn
}

// NewColumnStatusMap builds a mapping from ordered pairs. done names the
// terminal column; it must be one of the mapped columns.
func NewColumnStatusMap(pairs []ColumnStatus, done BoardColumn) (*ColumnStatusMap, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("column status map must define at least one column")
	}

	m := &ColumnStatusMap{
		order:    make([]BoardColumn, 0, len(pairs)),
		statuses: make(map[BoardColumn]Status, len(pairs)),
		done:     done,
	}
	for _, p := range pairs {
		if _, err := NewBoardColumn(p.Column.String()); err != nil {
			return nil, err
		}
		if p.Status == "" {
			return nil, fmt.Errorf("column %q maps to an empty status", p.Column)
		}
		if _, dup := m.statuses[p.Column]; dup {
			return nil, fmt.Errorf("column %q is mapped twice", p.Column)
		}
		m.order = append(m.order, p.Column)
		m.statuses[p.Column] = p.Status
	}

	if _, ok := m.statuses[done]; !ok {
		return nil, fmt.Errorf("terminal column %q is not in the column status map", done)
	}
	return m, nil
}

// ParseColumnStatusMap parses "col=status;col=status" as read from config.
func ParseColumnStatusMap(table, done string) (*ColumnStatusMap, error) {
	var pairs []ColumnStatus
	for _, part := range strings.Split(table, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		col, status, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("column status pair %q must have the form column=status", part)
		}
		pairs = append(pairs, ColumnStatus{
			Column: BoardColumn(strings.TrimSpace(col)),
			Status: Status(strings.TrimSpace(status)),
		})
	}
	return NewColumnStatusMap(pairs, BoardColumn(strings.TrimSpace(done)))
}

// DefaultColumnStatusMap returns todo→todo, in_progress→in_progress,
// review→waiting, done→done with "done" as the terminal column.
func DefaultColumnStatusMap() *ColumnStatusMap {
	m, err := NewColumnStatusMap([]ColumnStatus{
		{Column: "todo", Status: StatusTodo},
		{Column: "in_progress", Status: StatusInProgress},
		{Column: "review", Status: StatusWaiting},
		{Column: "done", Status: StatusDone},
	}, "done")
	if err != nil {
		panic(err)
	}
	return m
}

// StatusFor returns the status mapped to column, if any.
func (m *ColumnStatusMap) StatusFor(column BoardColumn) (Status, bool) {
	s, ok := m.statuses[column]
	return s, ok
}

// Columns returns the mapped columns in table order.
func (m *ColumnStatusMap) Columns() []BoardColumn {
	out := make([]BoardColumn, len(m.order))
	copy(out, m.order)
	return out
}

// DoneColumn returns the terminal column.
func (m *ColumnStatusMap) DoneColumn() BoardColumn {
	return m.done
}

// IsDone reports whether column is the terminal column.
func (m *ColumnStatusMap) IsDone(column BoardColumn) bool {
	return column == m.done
}
