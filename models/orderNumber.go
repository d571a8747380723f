package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderNumberSequence holds one counter per (store, day). The row is
// claimed under FOR UPDATE inside the order-creation transaction, so two
// concurrent creates for the same store serialize and never see the same
// sequence value.
type OrderNumberSequence struct {
	StoreId   int       `gorm:"primaryKey;autoIncrement:false" json:"store_id"`
	SeqDate   string    `gorm:"primaryKey;size:6" json:"seq_date"`
	NextSeq   int       `gorm:"not null;default:1" json:"next_seq"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// FormatOrderNumber renders ORD + zero-padded store + yymmdd + sequence.
func FormatOrderNumber(storeId int, seqDate string, seq int) string {
	return fmt.Sprintf("ORD%03d%s%04d", storeId, seqDate, seq)
}

// ClaimOrderNumber allocates the next order number for the store inside
// the caller's transaction. The first claim of a day inserts the row;
// later claims lock and increment it.
func ClaimOrderNumber(tx *gorm.DB, storeId int, now time.Time) (string, error) {
	seqDate := now.Format("060102")

	var seq OrderNumberSequence
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("store_id = ? AND seq_date = ?", storeId, seqDate).
		First(&seq).Error
	if err == gorm.ErrRecordNotFound {
		seq = OrderNumberSequence{StoreId: storeId, SeqDate: seqDate, NextSeq: 2}
		if err := tx.Create(&seq).Error; err != nil {
			// lost the insert race; retry the locked read once
			err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("store_id = ? AND seq_date = ?", storeId, seqDate).
				First(&seq).Error
			if err != nil {
				return "", err
			}
			return claimLocked(tx, &seq)
		}
		return FormatOrderNumber(storeId, seqDate, 1), nil
	}
	if err != nil {
		return "", err
	}
	return claimLocked(tx, &seq)
}

func claimLocked(tx *gorm.DB, seq *OrderNumberSequence) (string, error) {
	claimed := seq.NextSeq
	seq.NextSeq = claimed + 1
	err := tx.Model(seq).
		Where("store_id = ? AND seq_date = ?", seq.StoreId, seq.SeqDate).
		Update("next_seq", seq.NextSeq).Error
	if err != nil {
		return "", err
	}
	return FormatOrderNumber(seq.StoreId, seq.SeqDate, claimed), nil
}
