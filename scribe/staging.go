package scribe

// StagingAction is one deferred build-context preparation step: a file
// copy or an archive build. Actions are collected in declaration order
// and never run automatically.
type StagingAction func() error

// Backlog returns the staging actions recorded so far, in declaration
// order.
func (d *Dockerfile) Backlog() []StagingAction { return d.backlog }

// Stage drains the staging backlog, running every action in order. It
// stops at the first failure, which leaves the context directory
// partially populated; the caller must treat that as a failed build.
func (d *Dockerfile) Stage() error {
	for _, action := range d.backlog {
		if err := action(); err != nil {
			return err
		}
	}
	return nil
}
