package service

import (
	"regexp"
	"strings"
)

// 账号归一化：打款账号是表格里抄来的自由文本，
// 如 "국민 111-1234-123456 홍길동"，比较时只看数字序列

// 少于 8 位数字的串当不了银行账号（卡号/电话碎片误录常见）
const minAccountDigits = 8

var (
	nonDigitRe     = regexp.MustCompile(`\D`)
	trailingNameRe = regexp.MustCompile(`[가-힣]+$`)
)

// NormalizeAccount 把账号原文归一化成可比较的数字串
// 返回 ok=false 表示剩余数字太短，不像真实账号
func NormalizeAccount(accountInfo string) (string, bool) {
	digits := nonDigitRe.ReplaceAllString(accountInfo, "")
	if len(digits) < minAccountDigits {
		return "", false
	}
	return digits, true
}

// SameAccount 两个账号原文是否指向同一账号
// 双方都要归一化成功且数字串相等
func SameAccount(a, b string) bool {
	na, okA := NormalizeAccount(a)
	nb, okB := NormalizeAccount(b)
	return okA && okB && na == nb
}

// ExtractAccountName 从账号原文里取末尾的人名
// "1002-661-758359 최은지" -> "최은지"；末尾没有韩文名时返回空串
func ExtractAccountName(accountInfo string) string {
	return trailingNameRe.FindString(strings.TrimSpace(accountInfo))
}
