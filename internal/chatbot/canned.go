package chatbot

// Fixed replies used by the responder.

const (
	continueLGPDReply    = "Continuando sobre LGPD, posso esclarecer outros aspectos específicos. O que gostaria de saber?"
	continueQualityReply = "Sobre qualidade de dados, posso detalhar outros aspectos. Qual sua dúvida específica?"

	// ApologyReply is returned when a message could not be processed.
	ApologyReply = "Desculpe, ocorreu um problema. Tente reformular sua pergunta."

	lgpdDefinition       = "LGPD é a Lei Geral de Proteção de Dados (Lei 13.709/2018) que estabelece regras sobre coleta, armazenamento e uso de dados pessoais no Brasil. Principais pontos: consentimento explícito, finalidade específica, minimização de dados e direito ao esquecimento."
	governanceDefinition = "Governança de dados é o conjunto de políticas, processos e tecnologias que garantem o uso adequado, seguro e eficiente dos dados organizacionais. Inclui: estrutura organizacional, políticas claras, controles de qualidade e segurança."
	qualityDefinition    = "Qualidade de dados refere-se à precisão, completude, consistência e atualidade das informações. Envolve: validação na entrada, limpeza de dados, padronização e monitoramento contínuo."

	lgpdProcedure       = "Para implementar LGPD: 1) Mapeie todos os dados pessoais, 2) Classifique por sensibilidade, 3) Documente finalidades, 4) Implemente controles de acesso, 5) Estabeleça processo de resposta a incidentes, 6) Treine a equipe."
	governanceProcedure = "Para implementar governança: 1) Crie comitê de dados, 2) Defina responsabilidades (owner, steward), 3) Estabeleça políticas, 4) Implemente catálogo de dados, 5) Monitore compliance, 6) Treine equipes."
)

// Framing prefixes applied to topic answers by intent.
const (
	explainPrefix   = "Vou explicar sobre %s: "
	procedurePrefix = "Para implementar %s: "
	questionPrefix  = "Sobre %s: "
)

var greetingReplies = []string{
	"Olá! Sou o Chat Governança, especializado em governança de dados. Como posso ajudá-lo hoje?",
	"Oi! Estou aqui para auxiliar com questões de dados, políticas e compliance. Em que posso ser útil?",
	"Bom dia! Sou especialista em governança de dados. Qual sua necessidade específica?",
	"Olá! Posso ajudar com LGPD, qualidade de dados, segurança e compliance. O que gostaria de saber?",
}

var farewellReplies = []string{
	"Foi um prazer ajudar! Estou sempre disponível para questões de governança de dados.",
	"De nada! Volte sempre que precisar de auxílio com dados e compliance.",
	"Por nada! Qualquer dúvida sobre governança de dados, estou aqui.",
	"Disponha! Estou sempre pronto para auxiliar com políticas e qualidade de dados.",
}

var helpReplies = []string{
	"Posso ajudar com: LGPD, qualidade de dados, segurança, compliance, catálogo de dados e políticas. Seja específico na sua pergunta para melhor atendimento.",
	"Sou especialista em governança de dados. Faça perguntas sobre: políticas, qualidade, segurança, LGPD ou compliance.",
	"Posso auxiliar em: classificação de dados, controle de acesso, qualidade, compliance e regulamentações. Qual sua necessidade específica?",
	"Estou aqui para ajudar com governança de dados. Para melhor atendimento, seja específico sobre sua dúvida.",
}

var fallbackReplies = []string{
	"Interessante pergunta! Posso ajudar melhor se você for mais específico sobre governança de dados, LGPD, qualidade ou segurança.",
	"Entendi sua mensagem. Para melhor atendimento, seja mais específico sobre sua necessidade em governança de dados.",
	"Posso ajudar com governança de dados, LGPD, qualidade, segurança ou compliance. Qual sua dúvida específica?",
	"Sou especialista em governança de dados. Como posso ser mais útil para você? Seja específico na sua pergunta.",
	"Para melhor atendimento, faça perguntas mais específicas sobre dados, políticas ou compliance.",
}

// Substring triggers for the fixed definition and procedure answers.
var (
	definitionTriggers = []string{"o que é", "definir", "significa"}
	procedureTriggers  = []string{"como implementar", "como fazer", "passo a passo", "implementar"}
	lgpdTerms          = []string{"lgpd", "lei geral"}
	governanceTerms    = []string{"governança", "governanca"}
	qualityTerms       = []string{"qualidade"}
)

// GreetingReplies returns a copy of the greeting set.
func GreetingReplies() []string { return append([]string(nil), greetingReplies...) }

// FarewellReplies returns a copy of the farewell set.
func FarewellReplies() []string { return append([]string(nil), farewellReplies...) }

// HelpReplies returns a copy of the help set.
func HelpReplies() []string { return append([]string(nil), helpReplies...) }

// FallbackReplies returns a copy of the generic fallback set.
func FallbackReplies() []string { return append([]string(nil), fallbackReplies...) }
