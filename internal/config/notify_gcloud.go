//go:build gcloud

package config

import "errors"

func (c *NotifyConfig) Validate() error {
	var errs []error

	if c.Topic == "" {
		errs = append(errs, ErrNtfyTopicMissing)
	}
	if c.GCloudProjectID == "" {
		errs = append(errs, errors.New("GCLOUD_PROJECT_ID is required"))
	}
	if c.GCloudLocationID == "" {
		errs = append(errs, errors.New("GCLOUD_LOCATION_ID is required"))
	}
	if c.GCloudQueueID == "" {
		errs = append(errs, errors.New("GCLOUD_QUEUE_ID is required"))
	}

	return notifyErrors(errs)
}
