// Package notify delivers transient toast messages and turns failed
// requests into readable ones.
package notify

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/hankerbiao/Registration-System/internal/console/client"
)

// Level is the kind of toast
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Toast is a short-lived notification
type Toast struct {
	Level       Level  `json:"level"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Toast titles and messages shown by the console
const (
	TitleSuccess = "成功！"
	TitleError   = "错误"

	FallbackMessage = "出现了错误。"

	AthleteCreated       = "运动员创建成功。"
	AthleteUpdated       = "运动员更新成功。"
	AthleteDeleted       = "运动员已成功删除"
	AthleteDeleteFailed  = "删除运动员时发生错误"
	UserCreated          = "运动队创建成功。"
	UserUpdated          = "运动队更新成功。"
	UserDeleted          = "运动队已成功删除"
	UserDeleteFailed     = "删除运动队时发生错误"
	ProfileUpdated       = "用户信息更新成功。"
	PasswordUpdated      = "密码更新成功。"
	AccountDeleted       = "您的账户已成功删除"
	FormDownloaded       = "报名表下载成功"
	DownloadFailedTitle  = "下载失败"
	DownloadFailed       = "无法下载报名表，请稍后重试。"
	RecoveryEmailSent    = "密码恢复邮件已发送。"
	PasswordResetSuccess = "密码已重置。"
	SignupSucceeded      = "注册成功，请登录。"
)

// Success builds a success toast
func Success(description string) Toast {
	return Toast{Level: LevelSuccess, Title: TitleSuccess, Description: description}
}

// Failure builds an error toast
func Failure(description string) Toast {
	return Toast{Level: LevelError, Title: TitleError, Description: description}
}

// Notifier shows toasts
type Notifier interface {
	Notify(Toast)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(Toast)

// Notify calls f
func (f NotifierFunc) Notify(t Toast) { f(t) }

// Recorder keeps every toast it is given. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

// Notify records t
func (r *Recorder) Notify(t Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, t)
}

// Toasts returns a copy of the recorded toasts
func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Toast(nil), r.toasts...)
}

// Drain returns the recorded toasts and forgets them
func (r *Recorder) Drain() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.toasts
	r.toasts = nil
	return out
}

// WriterNotifier prints toasts as lines, for terminals
type WriterNotifier struct {
	W io.Writer
}

// Notify writes t to W
func (n WriterNotifier) Notify(t Toast) {
	mark := "✓"
	if t.Level == LevelError {
		mark = "✗"
	}
	_, _ = fmt.Fprintf(n.W, "%s %s %s\n", mark, t.Title, t.Description)
}

// Message extracts the text shown for err: the first field error of a
// list detail, else a string detail, else the fallback
func Message(err error) string {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return FallbackMessage
	}
	if issues := apiErr.Body.Issues(); len(issues) > 0 {
		return issues[0].Msg
	}
	if s, ok := apiErr.Body.Text(); ok && s != "" {
		return s
	}
	if d := apiErr.Body.Detail; len(d) > 0 && string(d) != "null" && string(d) != "[]" {
		return string(d)
	}
	return FallbackMessage
}

// ErrorHandler shows failed requests as error toasts
type ErrorHandler struct {
	notifier Notifier
}

// NewErrorHandler creates an ErrorHandler delivering to n
func NewErrorHandler(n Notifier) *ErrorHandler {
	return &ErrorHandler{notifier: n}
}

// Handle notifies the message for err
func (h *ErrorHandler) Handle(err error) {
	if err == nil {
		return
	}
	h.notifier.Notify(Failure(Message(err)))
}

// Notifier returns the notifier the handler delivers to
func (h *ErrorHandler) Notifier() Notifier {
	return h.notifier
}
