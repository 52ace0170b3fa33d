package messages

import "github.com/davideconti/worksafe_project/internal/model/entities"

// CommandResponse è il body di GET /command: punteggio corrente e comando.
type CommandResponse struct {
	CIS     int              `json:"cis"`
	Command entities.Command `json:"command"`
}
