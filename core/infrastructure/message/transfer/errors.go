package transfer

import "errors"

var (
	ErrMongodb = errors.New("mongodb error happen")
)

// 连接相关错误
var (
	ErrNotConnected = errors.New("not connected")
	ErrRateLimited  = errors.New("publish rate limited")
)

// 消息相关错误
var (
	ErrMessageMarshal = errors.New("message marshal error")
	ErrInvalidSubject = errors.New("invalid subject")
)
