package service

import (
	"context"
	"strings"
	"time"

	"virtual-budtender-be/internal/constant"
	"virtual-budtender-be/internal/dto"
	"virtual-budtender-be/internal/mapper"
	"virtual-budtender-be/internal/pkg/logger"
	"virtual-budtender-be/pkg/catalog"
	"virtual-budtender-be/pkg/events"
	"virtual-budtender-be/pkg/llm"
	"virtual-budtender-be/pkg/query"
	"virtual-budtender-be/pkg/recommend"
	"virtual-budtender-be/pkg/session"
)

type IBudtenderService interface {
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
	Recommendations(ctx context.Context, req *dto.RecommendationFilterRequest) (*dto.ChatResponse, error)
	UpdatePreferences(ctx context.Context, req *dto.UpdatePreferencesRequest) (*dto.PreferencesResponse, error)
	GetPreferences(ctx context.Context, userId string) (*dto.PreferencesResponse, error)
	Health(ctx context.Context) (*dto.HealthResponse, error)
}

type BudtenderOptions struct {
	MaxProducts       int
	LowStockThreshold int
	Version           string
}

type budtenderService struct {
	index            *catalog.Index
	analyzer         *query.Analyzer
	scorer           *recommend.Scorer
	sessions         *session.Store
	productMapper    *mapper.ProductMapper
	llmProvider      llm.LLMProvider // nil when no provider is configured
	publisherService IPublisherService
	logger           logger.ILogger

	maxProducts       int
	lowStockThreshold int
	version           string
	startedAt         time.Time
}

func NewBudtenderService(
	index *catalog.Index,
	analyzer *query.Analyzer,
	scorer *recommend.Scorer,
	sessions *session.Store,
	productMapper *mapper.ProductMapper,
	llmProvider llm.LLMProvider,
	publisherService IPublisherService,
	log logger.ILogger,
	opts BudtenderOptions,
) IBudtenderService {
	if opts.MaxProducts <= 0 {
		opts.MaxProducts = 5
	}
	if opts.LowStockThreshold <= 0 {
		opts.LowStockThreshold = 5
	}
	if opts.Version == "" {
		opts.Version = "1.0.0"
	}
	return &budtenderService{
		index:             index,
		analyzer:          analyzer,
		scorer:            scorer,
		sessions:          sessions,
		productMapper:     productMapper,
		llmProvider:       llmProvider,
		publisherService:  publisherService,
		logger:            log,
		maxProducts:       opts.MaxProducts,
		lowStockThreshold: opts.LowStockThreshold,
		version:           opts.Version,
		startedAt:         time.Now(),
	}
}

// Chat routes one user message through intent analysis to the matching
// handler and records the exchange in the session history.
func (s *budtenderService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	start := time.Now()
	message := strings.TrimSpace(req.Message)

	fallback := catalog.ExperienceLevel(s.sessions.Preference(req.UserId, "experience_level"))
	analysis := s.analyzer.Analyze(message, fallback)

	s.logger.Info("BudtenderService", "Processing chat message", map[string]interface{}{
		"user_id": req.UserId,
		"intent":  string(analysis.Intent),
	})

	var res *dto.ChatResponse
	var err error
	switch analysis.Intent {
	case query.IntentProductQuery:
		res, err = s.handleProductQuery(ctx, req.UserId, analysis)
	case query.IntentMoreOptions:
		res, err = s.handleMoreOptions(ctx, req.UserId)
	case query.IntentProductDetails:
		res, err = s.handleProductDetails(ctx, req.UserId, message)
	default:
		res, err = s.handleConversation(ctx, req.UserId, message)
	}
	if err != nil {
		return nil, err
	}

	s.recordExchange(req.UserId, message, res)

	res.ProcessingTimeMs = time.Since(start).Milliseconds()
	res.Timestamp = time.Now()
	return res, nil
}

func (s *budtenderService) handleProductQuery(ctx context.Context, userId string, analysis query.Analysis) (*dto.ChatResponse, error) {
	criteria := analysis.Criteria()
	criteria.ExcludeIds = s.sessions.ShownIds(userId)

	items := s.index.Search(criteria)
	if len(items) == 0 {
		return s.noStockResponse(criteria.Category), nil
	}

	ranked := s.scorer.Rank(items, criteria)
	if len(ranked) > s.maxProducts {
		ranked = ranked[:s.maxProducts]
	}

	shownIds := make([]string, 0, len(ranked))
	for i := range ranked {
		shownIds = append(shownIds, ranked[i].Item.Id)
	}
	s.sessions.RecordShown(userId, shownIds...)
	s.sessions.SetLastCriteria(userId, criteria)

	s.publishShown(ctx, userId, shownIds, string(query.IntentProductQuery))

	greeting := constant.RecommendationsIntro(string(criteria.ExperienceLevel))
	for i := range ranked {
		if ranked[i].Item.Inventory <= s.lowStockThreshold {
			greeting += "\n" + constant.LowStockMessage(ranked[i].Item.Name, ranked[i].Item.Inventory)
		}
	}

	products := s.productMapper.ToDTOs(ranked)
	res := &dto.ChatResponse{
		Greeting:         greeting,
		Products:         products,
		FollowUpQuestion: constant.FollowUpQuestion,
		Recommendations:  products,
	}

	if criteria.ExperienceLevel == catalog.LevelNovice {
		content := s.educationalContent(analysis.Categories)
		res.EducationalContent = &content
	}

	return res, nil
}

func (s *budtenderService) handleMoreOptions(ctx context.Context, userId string) (*dto.ChatResponse, error) {
	criteria, ok := s.sessions.LastCriteria(userId)
	if !ok {
		// Nothing to widen yet, treat as small talk.
		return s.handleConversation(ctx, userId, "show me more options")
	}
	criteria.ExcludeIds = s.sessions.ShownIds(userId)

	items := s.index.Search(criteria)
	if len(items) == 0 {
		return s.noStockResponse(criteria.Category), nil
	}

	ranked := s.scorer.Rank(items, criteria)
	if len(ranked) > s.maxProducts {
		ranked = ranked[:s.maxProducts]
	}

	shownIds := make([]string, 0, len(ranked))
	for i := range ranked {
		shownIds = append(shownIds, ranked[i].Item.Id)
	}
	s.sessions.RecordShown(userId, shownIds...)

	s.publishShown(ctx, userId, shownIds, string(query.IntentMoreOptions))

	products := s.productMapper.ToDTOs(ranked)
	return &dto.ChatResponse{
		Greeting:         constant.MoreRecommendationsIntro,
		Products:         products,
		FollowUpQuestion: constant.FollowUpQuestion,
		Recommendations:  products,
	}, nil
}

// handleProductDetails matches the message against recently recommended
// product names. No match falls back to conversation.
func (s *budtenderService) handleProductDetails(ctx context.Context, userId string, message string) (*dto.ChatResponse, error) {
	lower := strings.ToLower(message)

	var target string
	for _, turn := range s.sessions.History(userId) {
		for _, name := range turn.Recommended {
			if name != "" && strings.Contains(lower, strings.ToLower(name)) {
				target = name
			}
		}
	}
	if target == "" {
		return s.handleConversation(ctx, userId, message)
	}

	it, ok := s.findByName(target)
	if !ok {
		return s.handleConversation(ctx, userId, message)
	}

	criteria, _ := s.sessions.LastCriteria(userId)
	ranked := s.scorer.Rank([]*catalog.Item{it}, criteria)
	products := s.productMapper.ToDTOs(ranked)

	return &dto.ChatResponse{
		Greeting:         "Here's more about " + it.Name + ":",
		Products:         products,
		FollowUpQuestion: constant.FollowUpQuestion,
		Recommendations:  products,
	}, nil
}

func (s *budtenderService) handleConversation(ctx context.Context, userId string, message string) (*dto.ChatResponse, error) {
	greeting := constant.ConversationFallback

	if s.llmProvider != nil {
		history := []llm.Message{{Role: constant.ChatMessageRoleSystem, Content: constant.BudtenderSystemPrompt}}
		for _, turn := range s.sessions.History(userId) {
			history = append(history, llm.Message{Role: turn.Role, Content: turn.Content})
		}
		history = append(history, llm.Message{Role: constant.ChatMessageRoleUser, Content: message})

		reply, err := s.llmProvider.Chat(ctx, history,
			llm.WithTemperature(0.7),
			llm.WithMaxTokens(200),
		)
		if err != nil {
			s.logger.Warn("BudtenderService", "LLM call failed, using canned reply", map[string]interface{}{
				"user_id": userId,
				"error":   err.Error(),
			})
		} else {
			greeting = reply
		}
	}

	return &dto.ChatResponse{
		Greeting:        greeting,
		Products:        []dto.ProductDTO{},
		Recommendations: []dto.ProductDTO{},
	}, nil
}

// Recommendations serves the "see more" flow: the client sends explicit
// filters plus everything it already displayed, and gets the next slice.
func (s *budtenderService) Recommendations(ctx context.Context, req *dto.RecommendationFilterRequest) (*dto.ChatResponse, error) {
	start := time.Now()

	exclude := s.sessions.ShownIds(req.UserId)
	for _, id := range req.ExcludeProducts {
		exclude[id] = true
	}

	criteria := catalog.SearchCriteria{
		Category:   req.Category,
		Strain:     req.Strain,
		Effects:    req.Effects,
		PriceBand:  catalog.ParsePriceBand(req.PriceBand),
		ExcludeIds: exclude,
	}
	if req.ExperienceLevel != "" {
		criteria.ExperienceLevel = catalog.ParseExperienceLevel(req.ExperienceLevel)
	}

	items := s.index.Search(criteria)
	if len(items) == 0 {
		res := s.noStockResponse(criteria.Category)
		res.ProcessingTimeMs = time.Since(start).Milliseconds()
		res.Timestamp = time.Now()
		return res, nil
	}

	ranked := s.scorer.Rank(items, criteria)
	if len(ranked) > s.maxProducts {
		ranked = ranked[:s.maxProducts]
	}

	shownIds := make([]string, 0, len(ranked))
	for i := range ranked {
		shownIds = append(shownIds, ranked[i].Item.Id)
	}
	s.sessions.RecordShown(req.UserId, shownIds...)

	s.publishShown(ctx, req.UserId, shownIds, "see_more")

	products := s.productMapper.ToDTOs(ranked)
	return &dto.ChatResponse{
		Greeting:         constant.MoreRecommendationsIntro,
		Products:         products,
		Recommendations:  products,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
		Timestamp:        time.Now(),
	}, nil
}

func (s *budtenderService) UpdatePreferences(ctx context.Context, req *dto.UpdatePreferencesRequest) (*dto.PreferencesResponse, error) {
	merged := s.sessions.UpdatePreferences(req.UserId, req.Preferences)
	return &dto.PreferencesResponse{
		UserId:      req.UserId,
		Preferences: merged,
	}, nil
}

func (s *budtenderService) GetPreferences(ctx context.Context, userId string) (*dto.PreferencesResponse, error) {
	return &dto.PreferencesResponse{
		UserId:      userId,
		Preferences: s.sessions.Preferences(userId),
	}, nil
}

func (s *budtenderService) Health(ctx context.Context) (*dto.HealthResponse, error) {
	return &dto.HealthResponse{
		Status:             "healthy",
		Timestamp:          time.Now(),
		Version:            s.version,
		ProductCatalogSize: s.index.Len(),
		ActiveSessions:     s.sessions.Count(),
		UptimeSeconds:      int64(time.Since(s.startedAt).Seconds()),
	}, nil
}

func (s *budtenderService) noStockResponse(category string) *dto.ChatResponse {
	return &dto.ChatResponse{
		Greeting:         constant.NoStockMessage(category),
		Products:         []dto.ProductDTO{},
		Recommendations:  []dto.ProductDTO{},
		FollowUpQuestion: "",
	}
}

func (s *budtenderService) findByName(name string) (*catalog.Item, bool) {
	for _, it := range s.index.Search(catalog.SearchCriteria{}) {
		if strings.EqualFold(it.Name, name) {
			return it, true
		}
	}
	return nil, false
}

func (s *budtenderService) educationalContent(categories []string) string {
	content := []string{constant.EducationTHC, constant.EducationCBD}

	switch {
	case containsAny(categories, catalog.CategoryFlower, catalog.CategoryPreRoll):
		content = append(content, constant.EducationSmoking)
	case containsAny(categories, catalog.CategoryEdible):
		content = append(content, constant.EducationEdibles)
	case containsAny(categories, catalog.CategoryVape):
		content = append(content, constant.EducationVaping)
	}

	return strings.Join(content, "\n\n")
}

func (s *budtenderService) recordExchange(userId, message string, res *dto.ChatResponse) {
	recommended := make([]string, 0, len(res.Products))
	for _, p := range res.Products {
		recommended = append(recommended, p.Name)
	}

	now := time.Now()
	s.sessions.AppendHistory(userId,
		session.Turn{Role: constant.ChatMessageRoleUser, Content: message, Timestamp: now},
		session.Turn{Role: constant.ChatMessageRoleAssistant, Content: res.Greeting, Timestamp: now, Recommended: recommended},
	)
}

func (s *budtenderService) publishShown(ctx context.Context, userId string, productIds []string, intent string) {
	if s.publisherService == nil {
		return
	}
	if err := s.publisherService.PublishEvent(ctx, events.NewRecommendationShown(userId, productIds, intent)); err != nil {
		s.logger.Warn("BudtenderService", "Failed to publish recommendation event", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
	}
}

func containsAny(haystack []string, needles ...string) bool {
	for _, h := range haystack {
		for _, n := range needles {
			if h == n {
				return true
			}
		}
	}
	return false
}
