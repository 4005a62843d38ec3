package dao

import (
	"github.com/reusedev/koi/internal/components/mysql"
	"github.com/reusedev/koi/internal/modules/model"
)

func CreateJob(record *model.Job) error {
	return mysql.DB.Model(&model.Job{}).Create(record).Error
}

// UpdateJob writes the non-zero fields of record onto the row with the same job_id.
func UpdateJob(record *model.Job) error {
	return mysql.DB.Model(&model.Job{}).Where("job_id = ?", record.JobId).Updates(record).Error
}

func JobByJobId(jobId string) (model.Job, error) {
	var record model.Job
	err := mysql.DB.Model(&model.Job{}).Where("job_id = ?", jobId).First(&record).Error
	if err != nil {
		return model.Job{}, err
	}
	return record, nil
}
