package bot

// Trigger phrases, compared against whitespace-trimmed text.
const (
	TriggerGameStart = "ウミガメのスープ"
	TriggerGameEnd   = "ウミガメ終了"
	TriggerPushTest  = "プッシュテスト"
	TriggerJanken    = "じゃんけん"
	TriggerMeal      = "今日のごはん"
	TriggerCreature  = "ポケモン"

	// KeywordWeather matches anywhere in the text.
	KeywordWeather = "天気"

	// AffirmativeToken opens a yes/no answer that confirms the player's guess.
	AffirmativeToken = "はい"
)

// PostbackSplitChar separates postback data fields: "janken$✊", "meal$good$<id>".
const PostbackSplitChar = "$"

const (
	postbackJanken = "janken"
	postbackMeal   = "meal"

	ratingGood = "good"
	ratingBad  = "bad"
)

// Sender display names.
const (
	senderUmigame  = "ウミガメ"
	senderWeather  = "お天気"
	senderJanken   = "じゃんけん"
	senderMeal     = "ごはん係"
	senderCreature = "ポケモン図鑑"
	senderChat     = "チャット"
	senderSystem   = "システム"
)

// ChatPersona is the system prompt for free-form conversation.
const ChatPersona = "あなたは LINE で会話する、明るく親しみやすいアシスタントです。" +
	"日本語で、3文以内の短い返事をしてください。絵文字は1つまでにしてください。" +
	"わからないことは正直にわからないと答えてください。"

// AnonymousName is shown when the sender's display name is unavailable.
const AnonymousName = "名無しさん"

const (
	msgGameIntro = "🐢 ウミガメのスープ\n\n【問題】\n%s\n\n" +
		"「はい」か「いいえ」で答えられる質問だけ受け付けます。\n" +
		"やめるときは「" + TriggerGameEnd + "」と送ってください。"
	msgGameDegraded = "⚠️ ユーザーIDを取得できないため、今回は問題の表示だけになります。質問には答えられません。"
	msgPuzzleFailed = "ごめんなさい、問題を作れませんでした🙏\n" +
		"LLM の API キー（GEMINI_API_KEY / OPENAI_API_KEY / GROQ_API_KEY）の設定を確認してください。"
	msgGameEnded    = "ウミガメのスープを終了しました。またいつでも遊んでね！"
	msgAnswerFailed = "ごめんなさい、いまは質問に答えられませんでした🙏\n" +
		"LLM の API キー設定を確認して、もう一度質問してください。"
	msgGameSolved = "🎉 おめでとうございます！\n核心をつく質問に「はい」が出たので、ゲームを終了します。"
	msgGameReveal = "【真相】\n%s"

	msgPushNoUser  = "ユーザーIDを取得できないため、プッシュメッセージを送れませんでした。"
	msgPushBody    = "📮 プッシュテスト（%s）"
	msgPushSent    = "プッシュメッセージを送信しました。"
	msgPushTimeFmt = "2006-01-02 15:04:05"

	msgWeatherFailed = "ごめんなさい、天気情報を取得できませんでした🙏\n地名を変えて試してみてください。"

	msgJankenMenuTitle = "じゃんけん"
	msgJankenMenuText  = "出す手を選んでね！"
	msgJankenUserLine  = "%sの手: %s"
	msgJankenBotLine   = "ボットの手: %s"
	msgJankenResult    = "結果: %s"
	msgJankenInvalid   = "⚠️ 知らない手です: %s"

	msgMealFailed = "ごめんなさい、献立を考えられませんでした🙏\n" +
		"LLM の API キー（GEMINI_API_KEY / OPENAI_API_KEY / GROQ_API_KEY）の設定を確認してください。"
	msgMealAsk     = "この提案はどうでしたか？"
	msgMealGood    = "よかった"
	msgMealBad     = "いまいち"
	msgMealThanks  = "フィードバックありがとうございます！次の提案の参考にします🍚"
	msgMealAltText = "今日のごはんの感想"

	msgCreatureAltText = "No.%03d %s"
	msgCreatureTypes   = "タイプ"
	msgCreatureEvolve  = "進化"
	msgCreatureNoEvo   = "進化しない"
	msgCreatureFailed  = "ごめんなさい、ポケモンの情報を取得できませんでした🙏\nしばらくしてからもう一度試してください。"

	msgChatFailed = "ごめんなさい、いまはお返事できません🙏\n" +
		"LLM の API キー（GEMINI_API_KEY / OPENAI_API_KEY / GROQ_API_KEY）の設定を確認してください。"

	msgRateLimited = "⏳ 少し時間をおいてから、もう一度お試しください。"

	msgWelcome = "友だち追加ありがとうございます！🐢\n\n" +
		"こんなことができます:\n" +
		"・" + TriggerGameStart + " … 水平思考クイズ\n" +
		"・○○の天気 … 天気予報\n" +
		"・" + TriggerJanken + " … じゃんけん勝負\n" +
		"・" + TriggerMeal + " … 献立のおすすめ\n" +
		"・" + TriggerCreature + " … ランダムなポケモン図鑑\n" +
		"それ以外はふつうにおしゃべりできます。"
)
