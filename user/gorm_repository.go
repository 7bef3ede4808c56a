package user

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/usermodel/store"
)

// Record is the database row of a user.
type Record struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"type:varchar(50) COLLATE NOCASE;not null;uniqueIndex"`
	PrimaryEmail string `gorm:"type:varchar(254);not null"`
	PasswordHash []byte `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName sets the table name to "users".
func (Record) TableName() string { return "users" }

func recordFrom(u User) Record {
	return Record{
		ID:           u.ID,
		Username:     u.Username,
		PrimaryEmail: u.PrimaryEmail,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (r Record) user() User {
	return User{
		ID:           r.ID,
		Username:     r.Username,
		PrimaryEmail: r.PrimaryEmail,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// GormRepository is a Repository backed by the users table. Usernames
// compare case-insensitively through the column collation.
type GormRepository struct {
	db *store.DB
}

var _ Repository = (*GormRepository)(nil)

// NewGormRepository creates a GormRepository on db. The users table must
// exist; see Migrate.
func NewGormRepository(db *store.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Migrate creates or updates the users table.
func Migrate(db *store.DB) error {
	return db.AutoMigrate(&Record{})
}

// FindAll returns every user ordered by id.
func (r *GormRepository) FindAll(ctx context.Context) ([]User, error) {
	var rows []Record
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, store.FromDatabase(err)
	}
	out := make([]User, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.user())
	}
	return out, nil
}

func (r *GormRepository) FindByID(ctx context.Context, id int64) (User, error) {
	var row Record
	err := r.db.WithContext(ctx).First(&row, id).Error
	if store.IsNotFound(err) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, store.FromDatabase(err)
	}
	return row.user(), nil
}

func (r *GormRepository) FindByUsername(ctx context.Context, username string) (User, error) {
	var row Record
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&row).Error
	if store.IsNotFound(err) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, store.FromDatabase(err)
	}
	return row.user(), nil
}

// Save inserts u when its ID is zero and replaces the stored row otherwise.
func (r *GormRepository) Save(ctx context.Context, u User) (User, error) {
	row := recordFrom(u)
	db := r.db.WithContext(ctx)

	if row.ID == 0 {
		if err := db.Create(&row).Error; err != nil {
			return User{}, saveError(err)
		}
		return row.user(), nil
	}

	res := db.Model(&Record{ID: row.ID}).Select("*").Updates(&row)
	if res.Error != nil {
		return User{}, saveError(res.Error)
	}
	if res.RowsAffected == 0 {
		return User{}, ErrNotFound
	}
	return row.user(), nil
}

func (r *GormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&Record{}, id)
	if res.Error != nil {
		return store.FromDatabase(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func saveError(err error) error {
	if store.IsDuplicate(err) {
		return fmt.Errorf("%w: %w", ErrDuplicateUsername, err)
	}
	return store.FromDatabase(err)
}
