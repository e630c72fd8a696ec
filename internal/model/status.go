// Package model 定义上游服务下发的用户数据结构
// 本文件定义用户状态与平台枚举
package model

import (
	"encoding/json"
	"strings"
)

// UserStatus 用户在线状态
type UserStatus string

const (
	StatusActive  UserStatus = "active"
	StatusJoinMe  UserStatus = "join me"
	StatusAskMe   UserStatus = "ask me"
	StatusBusy    UserStatus = "busy"
	StatusOffline UserStatus = "offline"
)

// ParseUserStatus 解析状态字符串，未知值一律视为 offline
func ParseUserStatus(s string) UserStatus {
	switch UserStatus(s) {
	case StatusActive, StatusJoinMe, StatusAskMe, StatusBusy:
		return UserStatus(s)
	default:
		return StatusOffline
	}
}

// UnmarshalJSON 宽松解析，上游新增的状态值不会导致解码失败
func (s *UserStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ParseUserStatus(raw)
	return nil
}

// PlatformKind 平台分类
type PlatformKind int

const (
	PlatformOther PlatformKind = iota
	PlatformStandaloneWindows
	PlatformAndroid
	PlatformWeb
)

func (k PlatformKind) String() string {
	switch k {
	case PlatformStandaloneWindows:
		return "standalonewindows"
	case PlatformAndroid:
		return "android"
	case PlatformWeb:
		return "web"
	default:
		return "other"
	}
}

// Platform 客户端平台
// 保留上游原始字符串，好友数据回写时需要原样输出
type Platform string

// Kind 返回平台分类，匹配区分大小写
func (p Platform) Kind() PlatformKind {
	switch p {
	case "standalonewindows":
		return PlatformStandaloneWindows
	case "android":
		return PlatformAndroid
	case "web":
		return PlatformWeb
	default:
		return PlatformOther
	}
}

// IsEmpty 平台字段是否缺失
func (p Platform) IsEmpty() bool {
	return strings.TrimSpace(string(p)) == ""
}
