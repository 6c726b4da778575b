// Package validate holds the field rules the console applies to its forms
// before anything is sent to the server.
package validate

import (
	"regexp"
	"slices"
	"unicode/utf8"
)

// Field error messages
const (
	MsgEmailRequired    = "邮箱是必填项"
	MsgEmailInvalid     = "无效的电子邮件地址"
	MsgPasswordRequired = "密码是必填项"
	MsgPasswordTooShort = "密码必须至少8个字符"
	MsgConfirmRequired  = "确认密码是必填项"
	MsgConfirmMismatch  = "两次输入的密码不匹配"
	MsgNameRequired     = "姓名是必填项。"
	MsgIDNumberRequired = "身份证号是必填项。"
	MsgUsernameRequired = "用户名是必填项"
	MsgTokenRequired    = "令牌是必填项"
	MsgOptionInvalid    = "请选择有效的选项"
	MsgTooLong          = "内容过长"
)

var emailPattern = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)

// Result is the outcome of a single rule
type Result struct {
	Valid   bool
	Message string
}

// OK is the passing Result
var OK = Result{Valid: true}

// Fail returns a failing Result carrying msg
func Fail(msg string) Result {
	return Result{Message: msg}
}

// Rule checks a single field value
type Rule func(value string) Result

// Required fails with msg when value is empty
func Required(msg string) Rule {
	return func(value string) Result {
		if value == "" {
			return Fail(msg)
		}
		return OK
	}
}

// Email fails when a non-empty value is not an email address
func Email() Rule {
	return func(value string) Result {
		if value != "" && !emailPattern.MatchString(value) {
			return Fail(MsgEmailInvalid)
		}
		return OK
	}
}

// MinLength fails when a non-empty value has fewer than n characters
func MinLength(n int, msg string) Rule {
	return func(value string) Result {
		if value != "" && utf8.RuneCountInString(value) < n {
			return Fail(msg)
		}
		return OK
	}
}

// MaxLength fails when value has more than n characters
func MaxLength(n int) Rule {
	return func(value string) Result {
		if utf8.RuneCountInString(value) > n {
			return Fail(MsgTooLong)
		}
		return OK
	}
}

// Matches fails when value differs from the sibling value read at check time
func Matches(sibling func() string, msg string) Rule {
	return func(value string) Result {
		if value != sibling() {
			return Fail(msg)
		}
		return OK
	}
}

// OneOf fails when value is not one of options
func OneOf(options []string) Rule {
	return func(value string) Result {
		if !slices.Contains(options, value) {
			return Fail(MsgOptionInvalid)
		}
		return OK
	}
}

// Field is a named value with the rules it must satisfy
type Field struct {
	Name  string
	Value string
	Rules []Rule
}

// Check runs every rule and returns the message of each failure
func (f Field) Check() []string {
	var msgs []string
	for _, rule := range f.Rules {
		if r := rule(f.Value); !r.Valid {
			msgs = append(msgs, r.Message)
		}
	}
	return msgs
}

// Errors maps field names to their failure messages
type Errors map[string][]string

// OK reports whether no field failed
func (e Errors) OK() bool {
	return len(e) == 0
}

// First returns the first message for field, or ""
func (e Errors) First(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Check runs every field and collects all failures
func Check(fields ...Field) Errors {
	errs := Errors{}
	for _, f := range fields {
		if msgs := f.Check(); len(msgs) > 0 {
			errs[f.Name] = msgs
		}
	}
	return errs
}
