package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const processTimeout = 2 * time.Second

// rotctl exits with 2 when it cannot open the controller port.
const exitCantOpen = 2

// Process invokes rotctl once per command, for controllers attached to a
// local serial device. There is no connection to keep alive; each send
// stands alone and is bounded by processTimeout.
type Process struct {
	device string
	model  int
	baud   int
	// command is the rotctl binary; replaceable in tests.
	command string
}

func NewProcess(device string, model, baud int) *Process {
	return &Process{device: device, model: model, baud: baud, command: "rotctl"}
}

func (p *Process) Send(ctx context.Context, cmd []byte) error {
	args := []string{
		"-m", strconv.Itoa(p.model),
		"-r", p.device,
		"-s", strconv.Itoa(p.baud),
	}
	args = append(args, strings.Fields(string(cmd))...)
	ctx, cancel := context.WithTimeout(ctx, processTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, p.command, args...).CombinedOutput()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s took longer than %v", ErrTimeout, p.command, processTimeout)
	}
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.ExitCode() == exitCantOpen {
			return fmt.Errorf("%w: %s", ErrUnavailable, p.device)
		}
		log.Printf("ROTOR ERROR: %s", bytes.TrimSpace(out))
		return fmt.Errorf("%s exited with code %d", p.command, exitErr.ExitCode())
	}
	return fmt.Errorf("running %s: %w", p.command, err)
}

func (p *Process) SendAndReceive(ctx context.Context, cmd []byte, replySize int) ([]byte, error) {
	return nil, errors.New("process transport cannot receive replies")
}

func (p *Process) Close() error {
	return nil
}
