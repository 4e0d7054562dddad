package mysql

import (
	"errors"
	"strings"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// mysqlDuplicateEntry MySQL错误码1062: Duplicate entry 'xxx' for key 'yyy'
const mysqlDuplicateEntry = 1062

// isDuplicateError 判断是否为唯一索引冲突错误
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *gomysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	return strings.Contains(err.Error(), "Duplicate entry")
}

// duplicateKey 冲突的索引名是否为key
func duplicateKey(err error, key string) bool {
	return isDuplicateError(err) && strings.Contains(err.Error(), key)
}
