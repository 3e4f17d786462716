package analysts

import (
	"encoding/json"
	"fmt"

	"coinsage/consts"
	"coinsage/internal/dataflows"
	"coinsage/internal/llm"
	"coinsage/internal/toolkit"
)

// NewsAnalyst analyzes recent news coverage for the coin.
func NewsAnalyst(gateway llm.Gateway, registry *toolkit.Registry) *Analyst {
	return New(Domain{
		Name:     "NewsAnalyst",
		ToolName: consts.ToolCryptoNews,
		ToolPrompt: func(coin, date string) string {
			return fmt.Sprintf(
				"You are a crypto analyst AI.\n"+
					"Immediately call the '%s' tool to fetch recent news for %s.\n"+
					"Do not ask for clarification or additional input; use the provided coin symbol.\n"+
					"Date: %s.",
				consts.ToolCryptoNews, coin, date)
		},
		ReportPrompt: func(coin, date string) string {
			return fmt.Sprintf(
				"You are a cryptocurrency news analyst. You have called the '%s' tool to fetch recent news articles about %s. "+
					"The tool output is provided in the messages as a JSON string containing a list of articles with fields: title, source, published, url. "+
					"Analyze the news to determine current market sentiment, risks, and opportunities. "+
					"Include a markdown table with columns: Date (Published), Headline (max 50 characters), Sentiment (Positive/Negative/Neutral). "+
					"Provide a professional summary of the major themes and their impact on %s's market perception or price potential. "+
					"If the tool output indicates an error or no news, state: 'No news available for %s.'\n"+
					"Example output:\n"+
					"## News Report for %s\n"+
					"[Analysis of news items and their impact]\n"+
					"| Date | Headline | Sentiment |\n|------|----------|-----------|\n| Jan 01 2025 | %s hits $100K | Positive |\n| Jan 02 2025 | Mining concerns | Negative |\n\n"+
					"**Summary**: [Impact of news on %s's market position].\n"+
					"Do not call the '%s' tool again; use the provided tool output to generate the report.",
				consts.ToolCryptoNews, coin, coin, coin, coin, coin, coin, consts.ToolCryptoNews)
		},
		Sentinel: func(coin string) string {
			return fmt.Sprintf("No news available for %s.", coin)
		},
		EmptyData: func(observation string) bool {
			var out struct {
				Articles []*dataflows.NewsItem `json:"articles"`
			}
			if err := json.Unmarshal([]byte(observation), &out); err != nil {
				return false
			}
			return len(out.Articles) == 0
		},
	}, gateway, registry)
}

// FundamentalsAnalyst analyzes market cap, supply, and listings.
func FundamentalsAnalyst(gateway llm.Gateway, registry *toolkit.Registry) *Analyst {
	return New(Domain{
		Name:     "FundamentalsAnalyst",
		ToolName: consts.ToolCryptoFundamentals,
		ToolPrompt: func(coin, date string) string {
			return fmt.Sprintf(
				"You are a crypto analyst AI.\n"+
					"Immediately call the '%s' tool to fetch data for %s.\n"+
					"Do not ask for clarification or additional input; use the provided coin symbol.\n"+
					"Date: %s.",
				consts.ToolCryptoFundamentals, coin, date)
		},
		ReportPrompt: func(coin, date string) string {
			return fmt.Sprintf(
				"You are a crypto fundamentals analyst. You have called the '%s' tool to fetch data about %s "+
					"(e.g., market cap, supply, listings, token platforms). Use the provided tool output to write a detailed report. "+
					"Include a markdown table summarizing key metrics (e.g., Market Cap, Circulating Supply, Total Supply, Exchange Listings Count). "+
					"Provide a professional summary of the coin's fundamentals, highlighting its market position and potential. "+
					"If the tool output indicates an error or no data, state: 'No fundamental data available for %s.'\n"+
					"Example output:\n"+
					"## Fundamentals Report for %s\n"+
					"[Analysis of market cap, supply, etc. based on data]\n"+
					"| Metric | Value |\n|--------|-------|\n| Market Cap (USD) | $1,234,567,890 |\n| Circulating Supply | 18,900,000 |\n| Total Supply | 21,000,000 |\n| Exchange Listings Count | 150 |\n\n"+
					"**Summary**: [Summary of the coin's fundamentals and market position].\n"+
					"Do not call the '%s' tool again; use the provided tool output.",
				consts.ToolCryptoFundamentals, coin, coin, coin, consts.ToolCryptoFundamentals)
		},
		Sentinel: func(coin string) string {
			return fmt.Sprintf("No fundamental data available for %s.", coin)
		},
		EmptyData: func(observation string) bool {
			var out struct {
				Data *dataflows.Fundamentals `json:"data"`
			}
			if err := json.Unmarshal([]byte(observation), &out); err != nil {
				return false
			}
			return out.Data == nil
		},
	}, gateway, registry)
}

// TechnicalAnalyst analyzes RSI, MACD and Bollinger Bands.
func TechnicalAnalyst(gateway llm.Gateway, registry *toolkit.Registry) *Analyst {
	return New(Domain{
		Name:     "TechnicalAnalyst",
		ToolName: consts.ToolCryptoTechnicals,
		ToolPrompt: func(coin, date string) string {
			return fmt.Sprintf(
				"You are a crypto analyst AI.\n"+
					"Immediately call the '%s' tool to fetch technical indicators for the coin '%s'.\n"+
					"Do not ask for clarification or additional input; use the provided coin symbol.\n"+
					"Date: %s.",
				consts.ToolCryptoTechnicals, coin, date)
		},
		ReportPrompt: func(coin, date string) string {
			return fmt.Sprintf(
				"You are a cryptocurrency technical analyst. You have called the '%s' tool to fetch technical indicators (RSI, MACD, Bollinger Bands) for %s. "+
					"The tool output is provided in the messages as a JSON string containing indicators like rsi, macd, macd_signal, bb_lower, bb_upper, bb_middle, close. "+
					"Write a detailed expert-level analysis explaining the technical outlook, highlighting overbought/oversold conditions, momentum, and volatility. "+
					"Include a markdown table with columns: Indicator, Value, Interpretation (e.g., Overbought, Bullish, Neutral). "+
					"Provide a professional summary of the technical outlook (e.g., bullish, bearish, neutral). "+
					"If the tool output is empty or reports an error, state: 'No technical data available for %s.'\n"+
					"Example output:\n"+
					"## Technical Report for %s\n"+
					"[Analysis of RSI, MACD, Bollinger Bands...]\n"+
					"Do not call the '%s' tool again; use the provided tool output.",
				consts.ToolCryptoTechnicals, coin, coin, coin, consts.ToolCryptoTechnicals)
		},
		Sentinel: func(coin string) string {
			return fmt.Sprintf("No technical data available for %s.", coin)
		},
		EmptyData: func(observation string) bool {
			var out struct {
				Indicators *dataflows.Indicators `json:"indicators"`
			}
			if err := json.Unmarshal([]byte(observation), &out); err != nil {
				return false
			}
			return out.Indicators == nil || out.Indicators.Close == nil
		},
	}, gateway, registry)
}

// SentimentAnalyst analyzes community discussion sentiment.
func SentimentAnalyst(gateway llm.Gateway, registry *toolkit.Registry) *Analyst {
	return New(Domain{
		Name:     "SentimentAnalyst",
		ToolName: consts.ToolRedditPosts,
		ToolPrompt: func(coin, date string) string {
			return fmt.Sprintf(
				"You are a helpful AI sentiment analyst.\n"+
					"Use the '%s' tool to fetch Reddit posts for %s.\n"+
					"Do not ask for clarification or additional input; use the provided coin symbol.\n"+
					"Date: %s.",
				consts.ToolRedditPosts, coin, date)
		},
		ReportPrompt: func(coin, date string) string {
			return fmt.Sprintf(
				"You are a social media sentiment analyst. You have called the '%s' tool to fetch recent Reddit posts related to %s. "+
					"The tool output is provided in the messages. Classify each post as Positive (e.g., optimistic, bullish), Negative (e.g., critical, bearish), or Neutral (e.g., factual, no strong opinion). "+
					"Provide a markdown table with columns: Post (short excerpt, max 50 characters), Sentiment, Reason. "+
					"Summarize the overall market mood (e.g., Bullish, Bearish, Neutral). "+
					"If the tool output is 'No recent posts found for this coin.', return a report stating:\n"+
					"| Post | Sentiment | Reason |\n|------|-----------|--------|\n| No posts found | Neutral | No recent posts available |\n\n**Summary**: No recent posts found for %s. Consider checking other sources like X or news articles.\n"+
					"Example output:\n"+
					"| Post | Sentiment | Reason |\n|------|-----------|--------|\n| Bitcoin to the moon! | Positive | Optimistic about price |\n| BTC is crashing | Negative | Bearish sentiment |\n\n**Summary**: Mixed sentiment with cautious outlook.\n"+
					"Do not call the '%s' tool again; use the provided tool output to generate the report.",
				consts.ToolRedditPosts, coin, coin, consts.ToolRedditPosts)
		},
		Sentinel: func(coin string) string {
			return "No recent posts found for this coin."
		},
		EmptyData: func(observation string) bool {
			var out struct {
				Posts []*dataflows.RedditPost `json:"posts"`
			}
			if err := json.Unmarshal([]byte(observation), &out); err != nil {
				return false
			}
			return len(out.Posts) == 0
		},
	}, gateway, registry)
}
