package chatbot

import (
	"fmt"
	"strings"
)

// Topic is one knowledge base entry: a governance subject with the keywords
// that identify it and the canned answers that can be given about it.
type Topic struct {
	ID        string
	Keywords  []string
	Responses []string
}

// DisplayName is the human form of the topic identifier.
func (t Topic) DisplayName() string {
	return strings.ReplaceAll(t.ID, "_", " ")
}

// KnowledgeBase is an ordered, immutable set of topics. Order matters: it is
// the tie-break order of topic matches.
type KnowledgeBase struct {
	topics []Topic
	index  map[string]int
}

// NewKnowledgeBase validates and indexes the given topics.
func NewKnowledgeBase(topics []Topic) (*KnowledgeBase, error) {
	kb := &KnowledgeBase{
		topics: make([]Topic, 0, len(topics)),
		index:  make(map[string]int, len(topics)),
	}
	for _, t := range topics {
		if strings.TrimSpace(t.ID) == "" {
			return nil, fmt.Errorf("knowledge base: topic with empty id")
		}
		if _, dup := kb.index[t.ID]; dup {
			return nil, fmt.Errorf("knowledge base: duplicate topic %q", t.ID)
		}
		if len(t.Keywords) == 0 {
			return nil, fmt.Errorf("knowledge base: topic %q has no keywords", t.ID)
		}
		if len(t.Responses) == 0 {
			return nil, fmt.Errorf("knowledge base: topic %q has no responses", t.ID)
		}
		t.Keywords = append([]string(nil), t.Keywords...)
		t.Responses = append([]string(nil), t.Responses...)
		kb.index[t.ID] = len(kb.topics)
		kb.topics = append(kb.topics, t)
	}
	return kb, nil
}

// Topics returns a copy of the topics in declaration order.
func (kb *KnowledgeBase) Topics() []Topic {
	out := make([]Topic, len(kb.topics))
	copy(out, kb.topics)
	return out
}

// Topic looks a topic up by id.
func (kb *KnowledgeBase) Topic(id string) (Topic, bool) {
	i, ok := kb.index[id]
	if !ok {
		return Topic{}, false
	}
	return kb.topics[i], true
}

// DefaultTopics is the data-governance knowledge base.
func DefaultTopics() []Topic {
	return []Topic{
		{
			ID:       "lgpd",
			Keywords: []string{"lgpd", "lei geral de proteção", "proteção de dados", "privacidade", "consentimento"},
			Responses: []string{
				"A LGPD (Lei Geral de Proteção de Dados) estabelece regras sobre coleta, armazenamento e uso de dados pessoais. Principais pontos: consentimento explícito, finalidade específica, minimização de dados e direito ao esquecimento.",
				"Para compliance com LGPD: mapeie todos os dados pessoais, implemente controles de acesso, documente finalidades, obtenha consentimento válido e estabeleça processo de resposta a incidentes.",
				"LGPD exige: registro de atividades de tratamento, análise de impacto à proteção de dados (AIPD), nomeação de encarregado de dados e políticas de privacidade claras.",
			},
		},
		{
			ID:       "qualidade_dados",
			Keywords: []string{"qualidade", "duplicado", "inconsistente", "completo", "preciso", "atualizado", "limpeza"},
			Responses: []string{
				"Qualidade de dados envolve: precisão (dados corretos), completude (sem campos vazios), consistência (formato padronizado), atualidade (dados recentes) e validade (conformidade com regras).",
				"Para melhorar qualidade: implemente validação na entrada, regras de negócio claras, monitoramento contínuo, processos de limpeza e padronização de formatos.",
				"Indicadores de qualidade: taxa de duplicação <5%, completude >95%, precisão >98%, tempo de atualização <24h e conformidade com padrões estabelecidos.",
			},
		},
		{
			ID:       "seguranca",
			Keywords: []string{"segurança", "seguranca", "acesso", "criptografia", "auditoria", "controle", "permissões", "proteção", "protecao"},
			Responses: []string{
				"Segurança de dados requer: classificação por sensibilidade, controle de acesso baseado em roles (RBAC), criptografia em trânsito e repouso, monitoramento e auditoria contínua.",
				"Implemente: autenticação multifator, princípio do menor privilégio, logs de auditoria detalhados, backup seguro e plano de resposta a incidentes.",
				"Controles essenciais: firewalls, antivírus, patches de segurança, treinamento da equipe e testes de penetração regulares.",
			},
		},
		{
			ID:       "governanca",
			Keywords: []string{"governança", "governanca", "política", "politica", "framework", "estrutura", "responsabilidade", "processo", "implementar", "implementação"},
			Responses: []string{
				"Governança de dados inclui: estrutura organizacional (comitê, responsáveis), políticas e procedimentos, tecnologias de suporte e métricas de monitoramento.",
				"Framework de governança: defina responsabilidades (data owner, steward, custodian), estabeleça políticas claras, implemente controles e monitore compliance.",
				"Elementos essenciais: catálogo de dados, linhagem de dados, classificação, qualidade, segurança e lifecycle management.",
			},
		},
		{
			ID:       "compliance",
			Keywords: []string{"compliance", "auditoria", "regulamentação", "conformidade", "norma"},
			Responses: []string{
				"Compliance requer: documentação completa de processos, controles internos efetivos, auditorias regulares, treinamento contínuo e correção de não-conformidades.",
				"Para auditoria: mantenha logs detalhados, documente políticas, implemente controles de acesso, monitore atividades e prepare evidências de conformidade.",
				"Regulamentações importantes: LGPD, GDPR, SOX, Basel III. Cada uma tem requisitos específicos de documentação, controles e monitoramento.",
			},
		},
		{
			ID:       "catalogacao",
			Keywords: []string{"catálogo", "catalogação", "inventário", "metadados", "linhagem", "mapeamento"},
			Responses: []string{
				"Catálogo de dados deve incluir: nome, descrição, tipo, formato, localização, proprietário, qualidade, uso e linhagem de cada ativo de dados.",
				"Metadados essenciais: técnicos (tipo, tamanho, formato), de negócio (significado, uso), operacionais (frequência de atualização) e de qualidade (completude, precisão).",
				"Linhagem de dados mostra: origem, transformações, destino e dependências. Fundamental para auditoria, debugging e impacto de mudanças.",
			},
		},
	}
}

// DefaultKnowledgeBase builds the data-governance knowledge base.
func DefaultKnowledgeBase() *KnowledgeBase {
	kb, err := NewKnowledgeBase(DefaultTopics())
	if err != nil {
		panic(err)
	}
	return kb
}
