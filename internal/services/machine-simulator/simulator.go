package machine_simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/davideconti/worksafe_project/internal/model/messages"
	"github.com/davideconti/worksafe_project/pkg/mqtt"
)

// TopicPrefix è il prefisso dei topic di telemetria: machine/telemetry/<id>.
const TopicPrefix = "machine/telemetry"

// MachineSimulator pubblica la telemetria di una flotta sul broker MQTT a
// intervalli regolari. Ogni messaggio porta un msg_id univoco: il bridge lo
// usa per scartare le redelivery QoS1.
type MachineSimulator struct {
	publisher  mqtt.IPublisher
	generators map[string]*TelemetryGenerator
}

func NewMachineSimulator(publisher mqtt.IPublisher, fleet *FleetProfile, seed int64) *MachineSimulator {
	gens := make(map[string]*TelemetryGenerator, len(fleet.Machines))
	for i, m := range fleet.Machines {
		gens[m.ID] = NewTelemetryGenerator(m, seed+int64(i))
	}
	return &MachineSimulator{publisher: publisher, generators: gens}
}

// Start pubblica un giro completo della flotta ad ogni intervallo, finché il
// contesto non viene cancellato.
func (s *MachineSimulator) Start(ctx context.Context, interval time.Duration) {
	for {
		select {
		case <-ctx.Done():
			s.publisher.Close()
			return
		case <-time.After(interval):
			for id, gen := range s.generators {
				if err := s.publishOne(id, gen); err != nil {
					log.Printf("simulator: publish error machine=%s: %v", id, err)
				}
			}
		}
	}
}

func (s *MachineSimulator) publishOne(id string, gen *TelemetryGenerator) error {
	reading := gen.Next()
	payload := messages.MachinePayload{
		MachineID: id,
		MsgID:     uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Machine:   reading,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	topic := fmt.Sprintf("%s/%s", TopicPrefix, id)
	// QoS1: la telemetria non deve perdersi, il dedup a valle copre i duplicati
	return s.publisher.PublishToQos(topic, 1, false, string(raw))
}
