package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

const documentNumberAttempts = 10

// nextDocumentNumber allocates PREFIX-YYYYMMDD-NNN numbers with a per-day
// sequence. The sequence starts from the count of the day's documents;
// free slots are probed in order and the unique index on the number column
// is the backstop against two transactions racing for the same slot.
func nextDocumentNumber(ctx context.Context, db *gorm.DB, table, column, prefix string, day time.Time) (string, error) {
	base := fmt.Sprintf("%s-%s-", prefix, day.Format("20060102"))

	var count int64
	if err := db.WithContext(ctx).
		Table(table).
		Where(column+" LIKE ?", base+"%").
		Count(&count).Error; err != nil {
		return "", err
	}

	for attempt := int64(0); attempt < documentNumberAttempts; attempt++ {
		candidate := fmt.Sprintf("%s%03d", base, count+attempt+1)
		var exists int64
		if err := db.WithContext(ctx).
			Table(table).
			Where(column+" = ?", candidate).
			Count(&exists).Error; err != nil {
			return "", err
		}
		if exists == 0 {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free document number after %d attempts for prefix %s", documentNumberAttempts, base)
}
