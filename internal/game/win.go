package game

type Winner string

const (
	WinnerNone    Winner = ""
	WinnerMafia   Winner = "mafia"
	WinnerCitizen Winner = "citizen"
)

// DecideWinner is evaluated only right after a death. Mafia wins on
// reaching parity with the citizens; citizens win once no mafia lives.
func DecideWinner(aliveMafia, aliveCitizens int) Winner {
	if aliveMafia >= aliveCitizens {
		return WinnerMafia
	}
	if aliveMafia == 0 {
		return WinnerCitizen
	}
	return WinnerNone
}
