package chat

// FAQCategory groups suggested questions under a heading.
type FAQCategory struct {
	Title     string   `json:"title"`
	Questions []string `json:"questions"`
}

var faqCatalogue = []FAQCategory{
	{
		Title: "Sobre o Time",
		Questions: []string{
			"Qual é a escalação atual da FURIA?",
			"Quem são os jogadores titulares e reservas?",
			"Qual é a função de cada jogador na equipe?",
			"Quem é o técnico atual da FURIA?",
		},
	},
	{
		Title: "Jogos e Campeonatos",
		Questions: []string{
			"Quando será o próximo jogo da FURIA?",
			"Contra quem será a próxima partida?",
			"Qual foi o resultado do último jogo?",
			"Onde posso assistir às partidas da FURIA ao vivo?",
			"Qual é o desempenho recente da FURIA nos campeonatos?",
			"Quantos títulos a FURIA já conquistou?",
		},
	},
	{
		Title: "Estatísticas e Notícias",
		Questions: []string{
			"Quais são as estatísticas individuais dos jogadores?",
			"Quais são as últimas notícias sobre a FURIA?",
			"Houve alguma mudança recente na equipe?",
			"Quais são os próximos campeonatos em que a FURIA participará?",
		},
	},
	{
		Title: "Fãs e Suporte",
		Questions: []string{
			"Onde posso comprar produtos oficiais da FURIA?",
			"Há promoções ou lançamentos recentes na loja oficial?",
			"Posso participar de enquetes ou quizzes sobre a equipe?",
			"Como envio sugestões ou feedback?",
			"Quais são os canais oficiais da FURIA nas redes sociais?",
			"Como posso entrar em contato com o suporte da FURIA?",
			"Quais são os horários de atendimento ao cliente?",
			"A FURIA tem algum programa de fidelidade ou recompensas?",
			"Quais são as políticas de devolução e troca da loja oficial?",
			"Como posso acompanhar as estatísticas em tempo real durante os jogos?",
			"A FURIA tem algum aplicativo oficial para dispositivos móveis?",
		},
	},
}

// FAQs returns a copy of the question catalogue.
func FAQs() []FAQCategory {
	out := make([]FAQCategory, len(faqCatalogue))
	for i, c := range faqCatalogue {
		out[i] = FAQCategory{Title: c.Title, Questions: append([]string(nil), c.Questions...)}
	}
	return out
}
