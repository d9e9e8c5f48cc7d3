// Package uuid 封装 gofrs/uuid，统一全局 UUID 类型
package uuid

import (
	// 外部依赖
	u "github.com/gofrs/uuid/v5"
)

type UUID = u.UUID

// NewV4 生成随机 UUID，失败时返回零值
func NewV4() UUID {
	id, err := u.NewV4()
	if err != nil {
		return u.Nil
	}
	return id
}

func NewNil() UUID {
	return u.Nil
}

func FromString(s string) (UUID, error) {
	return u.FromString(s)
}

func Must(id UUID, err error) UUID {
	if err != nil {
		panic(err)
	}
	return id
}
