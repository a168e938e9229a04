package game

import "fmt"

// AI players act through the same apply* paths as humans, so they obey
// identical eligibility rules. All randomness flows through the room's
// dice, which keeps every run reproducible under a seeded source.

var aiNames = []string{
	"🤖 Robo Farmer",
	"🤖 Robo Merchant",
	"🤖 Robo Carpenter",
	"🤖 Robo Chef",
	"🤖 Robo Guard",
	"🤖 Robo Medic",
	"🤖 Robo Fisher",
	"🤖 Robo Bard",
	"🤖 Robo Painter",
	"🤖 Robo Teacher",
}

var citizenLines = []string{
	"I am definitely a citizen.",
	"I'll sit back and watch this round.",
	"Has anyone been acting suspicious?",
	"Nobody stands out to me yet.",
	"Please vote carefully.",
	"Who could the mafia be?",
	"Who died last night again?",
	"Trust me, I'm a citizen.",
	"The mafia wouldn't talk like that.",
	"That one seems suspicious to me.",
}

var mafiaLines = []string{
	"I'm a citizen, honestly.",
	"You should suspect someone else.",
	"Please, trust me.",
	"Don't accuse people without proof.",
	"Let's all think this through calmly.",
}

var defenseLines = []string{
	"I am definitely a citizen! Believe me!",
	"If I were mafia I wouldn't have acted like this.",
	"Suspect someone else. I am innocent.",
	"Think hard before you vote. I'm a citizen.",
	"Executing me only helps the mafia.",
}

const (
	aiChatChance       = 0.7
	aiExecuteChance    = 0.6
	aiMafiaWordsChance = 0.5
)

type botBrain struct {
	room     *Room
	aiSerial int
}

// pickName hands out the first free AI name, falling back to a random
// numbered one when the pool is exhausted.
func (b *botBrain) pickName() string {
	taken := make(map[string]bool)
	for _, p := range b.room.roster.All() {
		taken[p.Nickname] = true
	}
	for _, name := range aiNames {
		if !taken[name] {
			return name
		}
	}
	b.aiSerial++
	return fmt.Sprintf("🤖 Robo %d", 1000*b.aiSerial+b.room.dice.Intn(1000))
}

func (b *botBrain) livingAIs() []*Participant {
	ais := make([]*Participant, 0)
	for _, p := range b.room.roster.All() {
		if p.IsAI && p.Alive {
			ais = append(ais, p)
		}
	}
	return ais
}

// discuss has each living AI speak up with a role-flavored line.
func (b *botBrain) discuss() {
	for _, ai := range b.livingAIs() {
		if b.room.dice.Float64() >= aiChatChance {
			continue
		}
		lines := citizenLines
		if ai.Role == RoleMafia {
			lines = mafiaLines
		}
		b.room.deliverChat(ai, lines[b.room.dice.Intn(len(lines))], false)
	}
}

// nominate votes each AI for a random living player other than itself;
// mafia AIs prefer citizens when any are standing.
func (b *botBrain) nominate() {
	for _, ai := range b.livingAIs() {
		if ai.NominationVote != "" {
			continue
		}
		pool := make([]*Participant, 0)
		for _, p := range b.room.roster.Living() {
			if p.Nickname == ai.Nickname {
				continue
			}
			pool = append(pool, p)
		}
		if ai.Role == RoleMafia {
			citizens := make([]*Participant, 0, len(pool))
			for _, p := range pool {
				if p.Role == RoleCitizen {
					citizens = append(citizens, p)
				}
			}
			if len(citizens) > 0 {
				pool = citizens
			}
		}
		if len(pool) == 0 {
			continue
		}
		b.room.applyNominationVote(ai, pool[b.room.dice.Intn(len(pool))].Nickname)
	}
}

// defend puts a plea in the mouth of a nominated AI.
func (b *botBrain) defend() {
	nominee := b.room.roster.Find(b.room.nominated)
	if nominee == nil || !nominee.IsAI || !nominee.Alive {
		return
	}
	b.room.deliverChat(nominee, defenseLines[b.room.dice.Intn(len(defenseLines))], false)
}

// voteExecution: mafia AIs shield their own and condemn citizens;
// citizen AIs lean toward execution.
func (b *botBrain) voteExecution() {
	nominee := b.room.roster.Find(b.room.nominated)
	if nominee == nil {
		return
	}
	for _, ai := range b.livingAIs() {
		if ai.ExecutionVote != "" || ai.Nickname == nominee.Nickname {
			continue
		}
		vote := VoteYes
		if ai.Role == RoleMafia {
			if nominee.Role == RoleMafia {
				vote = VoteNo
			}
		} else if b.room.dice.Float64() >= aiExecuteChance {
			vote = VoteNo
		}
		b.room.applyExecutionVote(ai, vote)
	}
}

// actAtNight lets a mafia AI pick a victim when no target is set yet,
// and sometimes mutter in the mafia channel.
func (b *botBrain) actAtNight() {
	if b.room.mafiaTarget != "" {
		return
	}
	var mafiaAI *Participant
	for _, ai := range b.livingAIs() {
		if ai.Role == RoleMafia {
			mafiaAI = ai
			break
		}
	}
	if mafiaAI == nil {
		return
	}

	citizens := b.room.roster.LivingWithRole(RoleCitizen)
	if len(citizens) == 0 {
		return
	}
	b.room.applyMafiaTarget(mafiaAI, citizens[b.room.dice.Intn(len(citizens))].Nickname)

	if b.room.dice.Float64() < aiMafiaWordsChance {
		b.room.deliverChat(mafiaAI, mafiaLines[b.room.dice.Intn(len(mafiaLines))], true)
	}
}
