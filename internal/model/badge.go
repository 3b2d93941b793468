package model

// Badge IDs known to the ledger's default policy.
const (
	BadgeFirstSteps   = "primeiros_passos"
	BadgeFriendlyChat = "conversa_amiga"
	BadgeMoodDiary    = "diario_emocional"
)

// Badge describes an earnable badge for display; the set of earned badge IDs
// lives in the user's progress record.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Badges is the display catalog, in award order.
var Badges = []Badge{
	{
		ID:          BadgeFirstSteps,
		Name:        "Primeiros Passos",
		Description: "Você completou sua primeira atividade. O caminho para a calma começou!",
		Icon:        "👣",
	},
	{
		ID:          BadgeFriendlyChat,
		Name:        "Conversa Amiga",
		Description: "Você iniciou sua primeira conversa com a Rilane. Acolhimento é poder.",
		Icon:        "💬",
	},
	{
		ID:          BadgeMoodDiary,
		Name:        "Diário Emocional",
		Description: "Você fez seu primeiro registro de humor. Conhecer-se é o primeiro passo.",
		Icon:        "📝",
	},
}

func BadgeByID(id string) (Badge, bool) {
	for _, b := range Badges {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}
