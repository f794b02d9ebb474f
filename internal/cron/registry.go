package cron

import (
	"context"
	"fmt"
	"strings"
)

// Job is one scheduled unit of work: the source refresh in the worker, the
// snapshot sync in the API process.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Registry holds the jobs a Service runs each cycle, in registration order.
// Job names double as metric labels and log fields, so they must be unique.
type Registry struct {
	jobs []Job
}

func NewRegistry(jobs ...Job) *Registry {
	registry := &Registry{}
	for _, job := range jobs {
		registry.Register(job)
	}
	return registry
}

// Register appends a job. Nil jobs are ignored.
func (r *Registry) Register(job Job) {
	if job == nil {
		return
	}
	r.jobs = append(r.jobs, job)
}

// Jobs returns a copy of the registered jobs.
func (r *Registry) Jobs() []Job {
	jobs := make([]Job, len(r.jobs))
	copy(jobs, r.jobs)
	return jobs
}

// Names lists the job names in run order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.jobs))
	for _, job := range r.jobs {
		names = append(names, job.Name())
	}
	return names
}

func (r *Registry) validate() error {
	seen := make(map[string]struct{}, len(r.jobs))
	for _, job := range r.jobs {
		name := strings.TrimSpace(job.Name())
		if name == "" {
			return fmt.Errorf("cron job name required")
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("cron job %q registered twice", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}
