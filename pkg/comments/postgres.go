package comments

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// PostgresConfig holds the connection settings, usually read from POSTGRES_* variables.
type PostgresConfig struct {
	Host     string
	User     string
	Password string
	Database string
	Port     string
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.Host, c.User, c.Password, c.Database, c.Port,
	)
}

// GormStore keeps comments in PostgreSQL.
type GormStore struct {
	DB *gorm.DB
}

// OpenPostgres connects, sizes the pool and migrates the schema.
func OpenPostgres(cfg PostgresConfig) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.New(
			log.Default(),
			logger.Config{
				SlowThreshold:             5 * time.Second,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
		NamingStrategy: schema.NamingStrategy{
			TablePrefix: "gallery_",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	s := &GormStore{DB: db}
	if err := s.AutoMigrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// AutoMigrate creates or updates the comments table.
func (s *GormStore) AutoMigrate() error {
	if err := s.DB.AutoMigrate(&Comment{}); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	return nil
}

func (s *GormStore) List(ctx context.Context, objectID string) ([]Comment, error) {
	var out []Comment
	err := s.DB.WithContext(ctx).
		Where("object_id = ?", objectID).
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return out, nil
}

func (s *GormStore) Add(ctx context.Context, objectID, name, comment string) (int64, error) {
	c := Comment{ObjectID: objectID, Name: name, Comment: comment}
	if err := s.DB.WithContext(ctx).Create(&c).Error; err != nil {
		return 0, fmt.Errorf("failed to insert comment: %w", err)
	}
	return c.ID, nil
}

func (s *GormStore) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{Top: []ObjectCount{}}
	db := s.DB.WithContext(ctx)

	var total int64
	if err := db.Model(&Comment{}).Count(&total).Error; err != nil {
		return nil, err
	}
	stats.Comments = int(total)

	var objects int64
	if err := db.Model(&Comment{}).Distinct("object_id").Count(&objects).Error; err != nil {
		return nil, err
	}
	stats.Objects = int(objects)

	err := db.Model(&Comment{}).
		Select("object_id, COUNT(*) as count").
		Group("object_id").
		Order("count DESC, object_id ASC").
		Limit(TopObjects).
		Scan(&stats.Top).Error
	if err != nil {
		return nil, err
	}
	if stats.Top == nil {
		stats.Top = []ObjectCount{}
	}
	return stats, nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
