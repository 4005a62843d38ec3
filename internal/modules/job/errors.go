package job

import "errors"

var (
	ErrUploadResponse = errors.New("upload response has no filename")
	ErrStatusResponse = errors.New("malformed job status response")
	ErrStatusCode     = errors.New("unexpected status code")
	ErrJobFailed      = errors.New("backend reported job failed")
	ErrPollTimeout    = errors.New("job polling timed out")
	ErrEmptyImage     = errors.New("backend returned an empty image")
	ErrJobNotFound    = errors.New("job not found")
)
