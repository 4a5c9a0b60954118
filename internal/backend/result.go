package backend

// Status is the outcome tag of a Result.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Result is the uniform response shape handed to views:
// {"status":"success","data":...} or {"status":"error","error":"..."}.
type Result[T any] struct {
	Status Status `json:"status"`
	Data   *T     `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Wrap turns a (data, err) pair into a Result.
func Wrap[T any](data *T, err error) Result[T] {
	if err != nil {
		return Failure[T](err)
	}
	return Result[T]{Status: StatusSuccess, Data: data}
}

func Success[T any](data T) Result[T] {
	return Result[T]{Status: StatusSuccess, Data: &data}
}

func Failure[T any](err error) Result[T] {
	return Result[T]{Status: StatusError, Error: err.Error()}
}

// OK reports whether the result carries data.
func (r Result[T]) OK() bool { return r.Status == StatusSuccess }
