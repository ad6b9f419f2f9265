package server

import (
	"fmt"
	"log"
	"os"
	"os/exec"
)

// ExecSpawner launches AI clients as child processes of the server binary.
// The child receives its identity and join grant through the environment and
// dials back over the regular client transport.
type ExecSpawner struct {
	// Binary is the AI client executable to launch.
	Binary string
}

// SpawnAI starts one AI client process. The child is reaped in the background
// so a crashed AI does not leave a zombie; the automaton notices the loss
// through the usual disconnection path.
func (s *ExecSpawner) SpawnAI(serverAddr, playerName, grant string) error {
	if s.Binary == "" {
		return fmt.Errorf("no AI binary configured")
	}
	cmd := exec.Command(s.Binary)
	cmd.Env = append(os.Environ(),
		"FREEORION_AI_SERVER_ADDR="+serverAddr,
		"FREEORION_AI_PLAYER_NAME="+playerName,
		"FREEORION_AI_JOIN_GRANT="+grant,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start AI client: %w", err)
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			log.Printf("AI client %s exited: %v", playerName, err)
		}
	}()
	return nil
}
