package consts

const (
	// Analysis stages
	StageNews         = "news"
	StageFundamentals = "fundamentals"
	StageTechnical    = "technical"
	StageSentiment    = "sentiment"

	// Decision stages
	StageResearch = "research"
	StageRisk     = "risk"
)

const (
	// Tool names exposed to the model. The toolkit registry is validated
	// against this closed set at construction time.
	ToolCryptoNews         = "get_crypto_news"
	ToolCryptoFundamentals = "get_crypto_fundamentals"
	ToolCryptoTechnicals   = "get_crypto_technicals"
	ToolRedditPosts        = "get_reddit_sentiment_posts"
)

const (
	// Decision vocabulary
	DecisionBuy  = "Buy"
	DecisionHold = "Hold"
	DecisionSell = "Sell"
)
