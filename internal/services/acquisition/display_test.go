package acquisition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/davideconti/worksafe_project/internal/model/entities"
)

// recordingRenderer cattura l'ultima render per le asserzioni.
type recordingRenderer struct {
	lastPage     int
	lastOverride entities.Command
	overrides    int
	pages        int
}

func (r *recordingRenderer) RenderPage(page int, _ Snapshot) {
	r.lastPage = page
	r.pages++
}

func (r *recordingRenderer) RenderOverride(cmd entities.Command, _ time.Duration) {
	r.lastOverride = cmd
	r.overrides++
}

func TestDisplayPageRotation(t *testing.T) {
	start := time.Unix(0, 0)
	r := &recordingRenderer{}
	d := NewDisplay(r, start)

	assert.Equal(t, 0, d.Page())

	// appena prima della dwell la pagina non avanza
	d.Tick(start.Add(PageDwell-time.Millisecond), Snapshot{})
	assert.Equal(t, 0, d.Page())

	d.Tick(start.Add(PageDwell), Snapshot{})
	assert.Equal(t, 1, d.Page())

	// un giro completo riporta alla pagina 0
	now := start.Add(PageDwell)
	for i := 0; i < PageCount-1; i++ {
		now = now.Add(PageDwell)
		d.Tick(now, Snapshot{})
	}
	assert.Equal(t, 0, d.Page())
}

func TestDisplayOverrideReplacesPaging(t *testing.T) {
	start := time.Unix(0, 0)
	r := &recordingRenderer{}
	d := NewDisplay(r, start)

	d.ApplyCommand(entities.CommandAlert, start)
	assert.True(t, d.InOverride())

	d.Tick(start.Add(time.Second), Snapshot{})
	assert.Equal(t, entities.CommandAlert, r.lastOverride)
	assert.Equal(t, 0, r.pages)

	// scaduta la hold il paging riprende
	d.Tick(start.Add(OverrideHold+time.Millisecond), Snapshot{})
	assert.False(t, d.InOverride())
	assert.Equal(t, 1, r.pages)
}

func TestDisplayOverrideIsReentrant(t *testing.T) {
	start := time.Unix(0, 0)
	d := NewDisplay(&recordingRenderer{}, start)

	d.ApplyCommand(entities.CommandBreak, start)

	// un nuovo pull non-NORMAL a metà finestra fa ripartire la hold
	mid := start.Add(3 * time.Second)
	d.ApplyCommand(entities.CommandBreak, mid)

	// oltre la finestra originale (6s) l'override è ancora attivo
	d.Tick(start.Add(OverrideHold+time.Second), Snapshot{})
	assert.True(t, d.InOverride())

	// e scade solo rispetto all'ultimo restart
	d.Tick(mid.Add(OverrideHold+time.Millisecond), Snapshot{})
	assert.False(t, d.InOverride())
}

func TestDisplayNormalDoesNotEnterOverride(t *testing.T) {
	start := time.Unix(0, 0)
	d := NewDisplay(&recordingRenderer{}, start)

	d.ApplyCommand(entities.CommandNormal, start)
	assert.False(t, d.InOverride())

	// e non accorcia un override in corso
	d.ApplyCommand(entities.CommandAlert, start)
	d.ApplyCommand(entities.CommandNormal, start.Add(time.Second))
	assert.True(t, d.InOverride())
	d.Tick(start.Add(OverrideHold-time.Millisecond), Snapshot{})
	assert.True(t, d.InOverride())
}

func TestDisplayPageTimerFrozenDuringOverride(t *testing.T) {
	start := time.Unix(0, 0)
	d := NewDisplay(&recordingRenderer{}, start)

	// 3s di dwell accumulata, poi override
	enter := start.Add(3 * time.Second)
	d.ApplyCommand(entities.CommandAlert, enter)

	// l'override dura ben oltre la dwell residua
	exit := enter.Add(OverrideHold + time.Second)
	d.Tick(exit, Snapshot{})
	assert.False(t, d.InOverride())
	// la pagina non è avanzata durante l'override
	assert.Equal(t, 0, d.Page())

	// mancavano 2s di dwell: 1s dopo l'uscita la pagina è ancora la 0
	d.Tick(exit.Add(time.Second), Snapshot{})
	assert.Equal(t, 0, d.Page())

	// a 2s dall'uscita la dwell accumulata scade e la pagina avanza
	d.Tick(exit.Add(2*time.Second), Snapshot{})
	assert.Equal(t, 1, d.Page())
}
