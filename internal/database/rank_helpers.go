package database

import "context"

// getMaxSortOrder returns the highest manual sort order across all alarms.
func (d *Database) getMaxSortOrder(ctx context.Context) (int, error) {
	ctx, cancel := d.withTimeout(ctx, d.timeout)
	defer cancel()

	var maxOrder int
	err := d.DB.QueryRowContext(ctx, "SELECT COALESCE(MAX(sort_order), 0) FROM alarms").Scan(&maxOrder)
	return maxOrder, err
}
