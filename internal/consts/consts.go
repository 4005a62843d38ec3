package consts

const (
	UploadImagePath = "/api/v1/upload_image"
	EnqueuePath     = "/api/v1/enqueue"
	JobPathFormat   = "/api/v1/jobs/%s"
	JobImageFormat  = "/api/v1/jobs/%s/image"

	SessionCookie = "session_id"
	WorkerParam   = "pod_host_id"
	JobsDataParam = "jobs_data"
)

type JobStatus string

const (
	JobStatusSubmitted JobStatus = "submitted"
	JobStatusPolling   JobStatus = "polling"
	JobStatusComplete  JobStatus = "complete"
	JobStatusFailed    JobStatus = "failed"
)

func (s JobStatus) String() string {
	return string(s)
}

// Terminal reports whether the backend is done with the job.
func (s JobStatus) Terminal() bool {
	return s == JobStatusComplete || s == JobStatusFailed
}

type CropPolicy string

const (
	CropCenter CropPolicy = "center"
)

func (c CropPolicy) String() string {
	return string(c)
}

type JobPhase string

const (
	PhaseQueue   JobPhase = "queue"
	PhaseUpload  JobPhase = "upload"
	PhaseEnqueue JobPhase = "enqueue"
	PhasePoll    JobPhase = "poll"
	PhaseFetch   JobPhase = "fetch"
	PhaseApply   JobPhase = "apply"
)

func (p JobPhase) String() string {
	return string(p)
}

const (
	EventJobSubmitted = "job_submitted"
	EventJobPolling   = "job_polling"
	EventJobEnd       = "job_end"
	EventLayerCreated = "layer_created"
	EventLayerFailed  = "layer_failed"
)

type StorageSupplier string

const (
	StorageLocal  StorageSupplier = "local"
	StorageAliOss StorageSupplier = "ali_oss"
)

func (s StorageSupplier) String() string {
	return string(s)
}
