package acquisition

import (
	"log"
	"time"

	"github.com/davideconti/worksafe_project/internal/model/entities"
)

// ===================== Display state machine =====================

const (
	// pagine in rotazione round-robin
	PageCount = 5
	PageDwell = 5 * time.Second
	// finestra di hold dell'override comando
	OverrideHold = 6 * time.Second
)

type displayMode int

const (
	modePaging displayMode = iota
	modeOverride
)

// Snapshot è il contenuto renderizzato sulle pagine.
type Snapshot struct {
	HeartRate float64
	HRV       float64
	Motion    float64
	SkinTemp  float64
	CIS       int
	Command   entities.Command
	HaveScore bool
}

// Renderer astrae l'uscita video; l'hardware reale è un piccolo display I2C,
// qui l'implementazione di default scrive su log.
type Renderer interface {
	RenderPage(page int, snap Snapshot)
	RenderOverride(cmd entities.Command, remaining time.Duration)
}

// Display è la macchina a stati a due modi {NORMAL_PAGING, OVERRIDE}.
// L'override è rientrante: ogni pull con comando non di default fa ripartire
// il timer, quindi un comando sostenuto estende la finestra. Il timer di
// pagina NON avanza durante l'override: all'uscita il paging riprende dalla
// pagina attiva al momento dell'ingresso, con la dwell già accumulata.
type Display struct {
	mode displayMode

	page        int
	pageStart   time.Time     // inizio del segmento di paging corrente
	pageElapsed time.Duration // dwell accumulata prima di un override

	overrideCmd   entities.Command
	overrideStart time.Time

	renderer Renderer
}

func NewDisplay(r Renderer, now time.Time) *Display {
	if r == nil {
		r = LogRenderer{}
	}
	return &Display{renderer: r, pageStart: now}
}

// ApplyCommand consuma l'esito di un pull. Un comando non di default entra
// (o ri-entra) in override facendo ripartire la finestra di hold; NORMAL non
// fa nulla: l'override esce solo per scadenza della finestra.
func (d *Display) ApplyCommand(cmd entities.Command, now time.Time) {
	if cmd == entities.CommandNormal || !cmd.Valid() {
		return
	}
	if d.mode == modePaging {
		// congela il timer di pagina
		d.pageElapsed += now.Sub(d.pageStart)
		d.mode = modeOverride
	}
	d.overrideCmd = cmd
	d.overrideStart = now
}

// Tick avanza la macchina a stati e renderizza lo stato corrente.
func (d *Display) Tick(now time.Time, snap Snapshot) {
	if d.mode == modeOverride {
		elapsed := now.Sub(d.overrideStart)
		if elapsed < OverrideHold {
			d.renderer.RenderOverride(d.overrideCmd, OverrideHold-elapsed)
			return
		}
		// finestra scaduta: il paging riprende da dove era rimasto
		d.mode = modePaging
		d.pageStart = now
	}

	total := d.pageElapsed + now.Sub(d.pageStart)
	if total >= PageDwell {
		d.page = (d.page + 1) % PageCount
		d.pageElapsed = 0
		d.pageStart = now
	}
	d.renderer.RenderPage(d.page, snap)
}

// Page ritorna l'indice di pagina corrente.
func (d *Display) Page() int { return d.page }

// InOverride riporta true se l'override è attivo.
func (d *Display) InOverride() bool { return d.mode == modeOverride }

// LogRenderer scrive le pagine su log; utile in simulazione e nei test.
type LogRenderer struct{}

func (LogRenderer) RenderPage(page int, snap Snapshot) {
	switch page {
	case 0:
		log.Printf("display: [HR] %.0f bpm", snap.HeartRate)
	case 1:
		log.Printf("display: [HRV] %.0f ms", snap.HRV)
	case 2:
		log.Printf("display: [MOTION] %.2f", snap.Motion)
	case 3:
		log.Printf("display: [TEMP] %.1f C", snap.SkinTemp)
	case 4:
		if snap.HaveScore {
			log.Printf("display: [CIS] %d %s", snap.CIS, snap.Command)
		} else {
			log.Printf("display: [CIS] --")
		}
	}
}

func (LogRenderer) RenderOverride(cmd entities.Command, remaining time.Duration) {
	log.Printf("display: *** %s *** (%.1fs)", cmd, remaining.Seconds())
}
