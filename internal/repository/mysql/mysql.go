package mysql

import (
	"Lee_Chat/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Open 显式构造连接，由 main 持有并注入各仓储
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Group{},
		&model.GroupMember{},
		&model.Message{},
		&model.GroupOutbox{},
	)
}
