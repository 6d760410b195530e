package boundary

import "net/http"

// trackingWriter remembers whether the response has been started
type trackingWriter struct {
	http.ResponseWriter
	status int
}

func track(w http.ResponseWriter) *trackingWriter {
	if tw, ok := w.(*trackingWriter); ok {
		return tw
	}
	return &trackingWriter{ResponseWriter: w}
}

func (w *trackingWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *trackingWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

func (w *trackingWriter) started() bool {
	return w.status != 0
}

// Unwrap lets http.ResponseController reach the underlying writer
func (w *trackingWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
