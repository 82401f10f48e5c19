//go:build !gcloud

package config

func (c *NotifyConfig) Validate() error {
	var errs []error
	if c.Topic == "" {
		errs = append(errs, ErrNtfyTopicMissing)
	}
	return notifyErrors(errs)
}
