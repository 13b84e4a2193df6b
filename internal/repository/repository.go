package repository

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User       UserRepository
	SurveyJob  SurveyJobRepository
	Review     ReviewRepository
	JobHistory JobHistoryRepository

	db *gorm.DB
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:       NewUserRepo(db),
		SurveyJob:  NewSurveyJobRepo(db),
		Review:     NewReviewRepo(db),
		JobHistory: NewJobHistoryRepo(db),
		db:         db,
	}
}

// BeginTx 开启可串行化事务，调用方负责 Commit / Rollback
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	tx := r.db.WithContext(ctx).Begin(&sql.TxOptions{Isolation: sql.LevelSerializable})
	return tx, tx.Error
}

// WithTx 返回绑定到事务连接的 Repository 聚合
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Transaction 在单个可串行化事务内执行 fn，fn 返回错误时整体回滚
// 在已绑定事务的聚合上调用时退化为 SAVEPOINT：fn 失败只回滚到保存点，外层事务可继续
// 未绑定数据库连接（单元测试中的 mock 聚合）时直接在当前聚合上执行
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
}
