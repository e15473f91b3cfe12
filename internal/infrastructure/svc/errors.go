package svc

import "errors"

// ErrNoJournalBackends 错误：启用了存储但没有任何后端
var ErrNoJournalBackends = errors.New("storage enabled but no journal backend enabled")

// ErrStorageInitFailed 错误：存储初始化失败
var ErrStorageInitFailed = errors.New("storage initialization failed")
