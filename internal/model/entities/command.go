package entities

// Command è il comando operativo derivato dal punteggio CIS.
// Viene ricalcolato ad ogni tick dal fusion node e recuperato in pull
// dal nodo di acquisizione, che lo usa per l'override del display.
type Command string

const (
	CommandNormal Command = "NORMAL"
	CommandAlert  Command = "ALERT"
	CommandBreak  Command = "BREAK"
)

// Valid riporta true se il valore ricevuto sul filo è uno dei comandi noti.
func (c Command) Valid() bool {
	switch c {
	case CommandNormal, CommandAlert, CommandBreak:
		return true
	}
	return false
}
