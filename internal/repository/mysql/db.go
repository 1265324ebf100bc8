package mysql

import (
	driver "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB 初始化全局 gorm 连接
func InitDB(dsn string) error {
	db, err := gorm.Open(driver.Open(dsn), &gorm.Config{})
	if err != nil {
		return err
	}
	DB = db
	return nil
}
