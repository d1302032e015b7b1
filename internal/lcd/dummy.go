//go:build !pi

package lcd

import (
	log "github.com/sirupsen/logrus"

	"github.com/callebjorkell/lcd4bit/internal/lcd/sim"
)

// OpenBus returns a simulated controller that logs what the panel would
// show whenever it changes.
func OpenBus(c BusConfig) (Bus, error) {
	if err := c.Normalize(); err != nil {
		return nil, err
	}
	log.Infof("Starting the simulated LCD (%s bus, %d columns)", c.Type, c.Columns)

	var last [2]string
	ctrl := sim.NewController()
	ctrl.OnUpdate = func(ctrl *sim.Controller) {
		lines := ctrl.Lines(c.Columns)
		if lines == last {
			return
		}
		last = lines
		log.Infof("LCD |%s|", lines[0])
		log.Infof("LCD |%s|", lines[1])
	}
	return ctrl, nil
}
