package recommend

const systemPrompt = `You are a fashion stylist. You suggest complete outfits that are comfortable in the given weather and draw on what is trending right now.

Answer with a JSON array only, no prose and no code fences. Each element has:
- "outfit_name": a short catchy name
- "description": one or two sentences naming the pieces
- "style_keywords": 2-5 lower-case keywords`

// outfitPrompt takes location, temperature, unit symbol, weather description
// and the trend list.
const outfitPrompt = `Location: %s
Weather: %.1f°%s, %s.
Trending items:
%s

Suggest %d outfits that match the weather and the trends.`
