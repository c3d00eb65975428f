package sim

import (
	"fmt"
	"sort"
	"strings"
)

// scenarios are named starting positions shared by the report CLI and
// the viewer. Our team attacks toward +x.
var scenarios = map[string]func() []Option{
	// Our 7 breaks with the ball against a thin back line.
	"counter-attack": func() []Option {
		return []Option{
			WithSelf(7),
			WithTeammate(7, 25, 5),
			WithTeammate(9, 32, -8),
			WithTeammate(11, 30, 15),
			WithOpponentGoalie(1, 50, 0),
			WithOpponent(2, 38, -3),
			WithOpponent(3, 36, 6),
			WithBall(25.6, 5, 0, 0),
		}
	},
	// Our 6 has the ball in our half under a three-man press.
	"build-up": func() []Option {
		return []Option{
			WithSelf(6),
			WithGoalie(1, -48, 0),
			WithTeammate(2, -35, -12),
			WithTeammate(3, -35, 12),
			WithTeammate(6, -20, 0),
			WithTeammate(7, -5, 15),
			WithTeammate(9, 0, -12),
			WithOpponentGoalie(1, 50, 0),
			WithOpponent(9, -14, 3),
			WithOpponent(10, -10, -8),
			WithOpponent(11, -8, 12),
			WithBall(-19.4, 0, 0, 0),
		}
	},
	// Their 9 dribbles at our goal; our back line has to win it back.
	"defend": func() []Option {
		return []Option{
			WithSelf(2),
			WithGoalie(1, -50, 0),
			WithTeammate(2, -31, 2),
			WithTeammate(3, -32, -6),
			WithTeammate(4, -28, 12),
			WithOpponent(9, -24, 4),
			WithOpponent(10, -20, -10),
			WithBall(-24.6, 4, 0, 0),
		}
	},
	// Four against four from the centre spot.
	"kickoff": func() []Option {
		return []Option{
			WithSelf(9),
			WithGoalie(1, -48, 0),
			WithTeammate(4, -20, 0),
			WithTeammate(7, -8, 10),
			WithTeammate(9, -2, 0),
			WithOpponentGoalie(1, 48, 0),
			WithOpponent(4, 20, 0),
			WithOpponent(7, 8, -10),
			WithOpponent(9, 6, 0),
			WithBall(0, 0, 0, 0),
		}
	},
}

// Scenarios lists the scenario names in sorted order.
func Scenarios() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Scenario returns the options that set up the named scenario.
func Scenario(name string) ([]Option, error) {
	build, ok := scenarios[name]
	if !ok {
		return nil, fmt.Errorf("unsupported scenario %q (supported: %s)", name, strings.Join(Scenarios(), ", "))
	}
	return build(), nil
}
