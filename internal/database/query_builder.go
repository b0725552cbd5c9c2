package database

import (
	"fmt"
	"strings"
	"time"
)

const alarmColumns = `id, recurrence_kind, weekday, next_activation, section_order, sort_order,
	display_text, icon, note, note_created_at, notification_id, created_at`

type AlarmQuery struct {
	columns string
	filters []string
	args    []interface{}
	orderBy string
	limit   int
}

func NewAlarmQuery() *AlarmQuery {
	return &AlarmQuery{columns: alarmColumns}
}

func (q *AlarmQuery) Where(filter string, args ...interface{}) *AlarmQuery {
	q.filters = append(q.filters, filter)
	q.args = append(q.args, args...)
	return q
}

func (q *AlarmQuery) WhereID(id string) *AlarmQuery {
	return q.Where("id = ?", id)
}

func (q *AlarmQuery) WhereActive() *AlarmQuery {
	return q.Where("next_activation IS NULL")
}

func (q *AlarmQuery) WhereScheduled() *AlarmQuery {
	return q.Where("next_activation IS NOT NULL")
}

// WhereDue matches scheduled alarms whose activation instant is at or before now.
func (q *AlarmQuery) WhereDue(now time.Time) *AlarmQuery {
	return q.WhereScheduled().Where("next_activation <= ?", toStoreTime(now))
}

func (q *AlarmQuery) OrderBy(orderBy string) *AlarmQuery {
	q.orderBy = orderBy
	return q
}

func (q *AlarmQuery) Limit(limit int) *AlarmQuery {
	q.limit = limit
	return q
}

func (q *AlarmQuery) Build() (string, []interface{}) {
	query := fmt.Sprintf("SELECT %s FROM alarms", q.columns)
	if len(q.filters) > 0 {
		query += " WHERE " + strings.Join(q.filters, " AND ")
	}
	if q.orderBy != "" {
		query += " ORDER BY " + q.orderBy
	}
	if q.limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", q.limit)
	}
	return query, q.args
}
