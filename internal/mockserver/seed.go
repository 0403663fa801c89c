package mockserver

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"prospectsheet/internal/model"
)

var (
	sdrs      = []string{"Ana", "Luis", "Eva", "Bruno", "Camila", "Diego", "Sofía", "Tomás"}
	countries = []string{"AR", "CL", "MX", "CO", "PE", "UY", "ES"}
	statuses  = []string{"pendiente", "en curso", "ok", "error", ""}
	clients   = []string{"ACME", "Globex", "Initech", "Umbrella"}
	comments  = []string{"", "revisar lista", "pausado por cliente", "subir catch-all", "sin respuesta"}
)

// Generate builds n plausible prospección records with ids 1..n. Timestamps
// spread over the last few days so today/yesterday highlighting shows up.
func Generate(n int, rnd *rand.Rand, now time.Time) []model.Record {
	out := make([]model.Record, 0, n)
	for i := 1; i <= n; i++ {
		sid := randID(rnd, 44)
		out = append(out, model.Record{
			"Id":                        i,
			model.KeySDR:                pick(rnd, sdrs),
			model.KeyPais:               pick(rnd, countries),
			model.KeySheetName:          fmt.Sprintf("Campaña %03d", i),
			model.KeySpreadsheetID:      sid,
			model.KeySheet:              "https://docs.google.com/spreadsheets/d/" + sid + "/edit",
			model.KeyHoraProgramada:     fmt.Sprintf("%02d:%02d", 8+rnd.Intn(10), 15*rnd.Intn(4)),
			model.KeyUltimaHumanizacion: stamp(rnd, now),
			model.KeyUltimoEnvioReply:   stamp(rnd, now),
			model.KeyMargenMin:          randMargin(rnd),
			model.KeyActivo:             rnd.Intn(4) > 0,
			model.KeyComentario:         pick(rnd, comments),
			model.KeyStatusSinHumanizar: pick(rnd, statuses),
			model.KeyStatusHumanizado:   pick(rnd, statuses),
			model.KeyUploadCatchAll:     rnd.Intn(2) == 0,
			model.KeyAPIKey:             "sk-" + strings.ToLower(randID(rnd, 24)),
			"client":                    pick(rnd, clients),
		})
	}
	return out
}

func pick(rnd *rand.Rand, list []string) string { return list[rnd.Intn(len(list))] }

const idChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

func randID(rnd *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = idChars[rnd.Intn(len(idChars))]
	}
	return string(b)
}

// stamp is blank one time in six; otherwise within the last four days.
func stamp(rnd *rand.Rand, now time.Time) string {
	if rnd.Intn(6) == 0 {
		return ""
	}
	t := now.Add(-time.Duration(rnd.Intn(4*24*60)) * time.Minute)
	return t.Format("2006-01-02 15:04:05-07:00")
}

func randMargin(rnd *rand.Rand) any {
	if rnd.Intn(5) == 0 {
		return nil
	}
	return float64(5 * (1 + rnd.Intn(12)))
}
