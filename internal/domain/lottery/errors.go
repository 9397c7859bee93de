package lottery

import (
	"errors"
	"fmt"
)

var (
	// ErrUpstreamUnavailable 表示抓取時網路錯誤、逾時或非 200 回應。
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrMalformedPayload 表示上游回應形狀不符。
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrNoCache 表示尚無任何成功的快照。
	ErrNoCache = errors.New("no cached snapshot")
)

// RetrievalError 包裝一次抓取失敗，Kind 為上述其中一個 sentinel。
type RetrievalError struct {
	Kind error
	Err  error
}

// NewRetrievalError 建立抓取錯誤。
func NewRetrievalError(kind, err error) *RetrievalError {
	return &RetrievalError{Kind: kind, Err: err}
}

func (e *RetrievalError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

// Is 讓 errors.Is 可同時比對 Kind。
func (e *RetrievalError) Is(target error) bool {
	return e.Kind == target
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// IsRetrievalError 檢查錯誤是否為抓取錯誤。
func IsRetrievalError(err error) bool {
	var re *RetrievalError
	return errors.As(err, &re)
}
