package constant

import "fmt"

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	BudtenderSystemPrompt = `You are an expert virtual budtender for Runway Pot with deep knowledge of cannabis products. Your role is to provide personalized recommendations while maintaining a professional, empathetic, and educational approach.

Key Responsibilities:
1. Customer Understanding
- Ask focused questions about customer preferences, experience level, and desired effects
- Remember and reference previous interactions in the conversation
- Follow up on customer feedback about suggested products

2. Product Knowledge
- Explain differences between strains, categories, and consumption methods
- Match products to the customer's stated needs and tolerance

3. Personalization
- Consider time of day and intended use
- Factor in customer's previous feedback
- Adjust recommendations based on customer responses

4. Safety and Education
- Provide clear dosage guidance, especially for edibles
- Explain potential effects and duration
- Mention possible side effects when relevant
- Encourage responsible consumption
- Provide harm reduction tips

Remember to:
- Be direct and clear in your recommendations
- Use simple language to explain complex concepts
- Stay within legal and ethical boundaries
- Maintain a supportive and non-judgmental tone
- Focus on education and harm reduction`

	FollowUpQuestion = "Would you like more details about any of these products?"

	MoreRecommendationsIntro = "Here are some more recommendations for you:"

	ConversationFallback = "I'm happy to help you find the right product. Tell me what effects you're looking for, how experienced you are, and whether you prefer flower, vapes, or edibles."

	EducationTHC = "For new users, we recommend starting with products that have lower THC content (10-15%) to ensure a comfortable experience. THC is the main psychoactive component in cannabis."

	EducationCBD = "CBD is non-psychoactive and can help balance the effects of THC. For beginners, products with both THC and CBD can provide a more gentle experience."

	EducationSmoking = "When smoking cannabis, start with a small amount (one or two puffs) and wait 10-15 minutes to assess the effects before consuming more."

	EducationEdibles = "Edibles can take 30-90 minutes to take effect and last longer. Start with a low dose (2.5-5mg THC) and wait at least 2 hours before consuming more."

	EducationVaping = "Vaping can provide more immediate effects than edibles but may be gentler than smoking. Start with a small puff and wait 5-10 minutes."
)

// NoStockMessage asks the user to widen the search when nothing matched.
func NoStockMessage(category string) string {
	if category == "" {
		category = "matching"
	}
	return fmt.Sprintf("I apologize, but we currently don't have any %s products in stock that match your criteria. Would you like to explore alternative options?", category)
}

// LowStockMessage warns about a nearly depleted item.
func LowStockMessage(name string, inventory int) string {
	return fmt.Sprintf("Please note that %s is running low on stock (%d units remaining). You may want to consider alternative options as well.", name, inventory)
}

// RecommendationsIntro picks the greeting line for the user's tolerance.
func RecommendationsIntro(level string) string {
	switch level {
	case "novice":
		return "As a new user, I've selected some gentle products with lower THC content to ensure a comfortable experience:"
	case "intermediate":
		return "Based on your experience level, here are some balanced options:"
	case "experienced":
		return "Given your experience, here are some higher-potency options:"
	default:
		return "Here are some products that match your preferences:"
	}
}
