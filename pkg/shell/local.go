package shell

import (
	"context"
	"os/exec"
)

// LocalTarget runs commands on the local machine using os/exec.
var LocalTarget Target = localTarget{}

type localTarget struct{}

type localProcess struct {
	exec *exec.Cmd
}

func (localTarget) Start(cmd Cmd) (Process, error) {
	p := &localProcess{
		exec: exec.Command(cmd.Name, cmd.Args...),
	}
	p.exec.Dir = cmd.Dir
	p.exec.Stdout = cmd.Stdout
	p.exec.Stderr = cmd.Stderr
	return p, p.exec.Start()
}

func (p *localProcess) Wait(ctx context.Context) error {
	res := make(chan error, 1)
	go func() { res <- p.exec.Wait() }()
	select {
	case err := <-res:
		return err
	case <-ctx.Done():
		p.exec.Process.Kill()
		<-res
		return ctx.Err()
	}
}
