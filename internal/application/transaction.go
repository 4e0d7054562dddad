// Package application 应用层公共定义
package application

import (
	"context"
)

// TxManager 事务边界
// 每个用例在一个事务内完成全部读写：fn返回error时回滚，否则提交。
// 实现见infrastructure/persistence/mysql.TxManager
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
