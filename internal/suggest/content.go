package suggest

// Canned content for the fallback ladder. The exact wording is load-bearing:
// the post-processor and the client pattern-match on several of these
// strings, so they must not drift.

// RequiredClosing is the motivational sentence every default-plan response
// must end with. The post-processor appends it when missing.
const RequiredClosing = "Your dedication and consistency will lead you to success in CE and IT field. Keep pushing forward and remember that every hour you invest in learning is a step closer to achieving your goals."

// GenericStudyTip is inserted into a plan when no qualifying tasks exist.
const GenericStudyTip = "Practice writing SQL queries on a platform like LeetCode to strengthen your database skills."

// StreakEncouragement closes the Habits block.
const StreakEncouragement = "Keep consistent to build your streak and achieve your goals!"

// studyTipPrefix opens every study tip response.
const studyTipPrefix = "Here's a study tip for students:\n\n- "

// studyTips is the canned pool used for study-tip requests. Tips are served
// from here directly; the external model is never consulted for this mode.
var studyTips = []string{
	"Use the Pomodoro Technique: Study for 25 minutes, then take a 5-minute break. This improves focus by working with your brain's natural attention cycles. Ideal for complex programming tasks.",
	"Create a dedicated study environment free from distractions. Your brain forms associations with physical spaces, making it easier to focus when you're in your designated study area. Perfect for deep technical learning.",
	"Practice active recall by testing yourself rather than just re-reading notes. Try explaining database concepts or algorithms out loud as if teaching someone else. This strengthens neural pathways and improves retention.",
	"Use spaced repetition for memorizing important concepts. Review material at increasing intervals (1 day, 3 days, 1 week, etc.). This technique is especially effective for remembering syntax rules and programming patterns.",
	"Break complex topics into smaller, manageable chunks. When learning a new programming language, master one concept before moving to the next. This prevents overwhelm and builds confidence through incremental success.",
	"Create mind maps to visualize connections between different computing concepts. This spatial organization helps your brain form meaningful associations and see the bigger picture in complex technical subjects.",
	"Set specific, measurable study goals for each session. Instead of \"study networking,\" aim to \"understand and diagram the OSI model layers.\" This creates clear endpoints and a sense of accomplishment.",
	"Use the Feynman Technique: Explain a complex computing concept in simple terms as if teaching a beginner. This reveals gaps in your understanding and reinforces your knowledge of the material.",
	"Alternate between different subjects or problem types in a single study session. This interleaving approach forces your brain to retrieve different strategies and strengthens overall learning more than blocked practice.",
	"Take brief, regular movement breaks during study sessions. Physical activity increases blood flow to the brain, improving cognitive function. Even a 5-minute walk can refresh your mind for tackling difficult coding problems.",
}

// Motivational pools for progress reports, tiered by how far along the
// student is. Zero activity today always serves from the beginner pool to
// encourage restarting, whatever the lifetime stats say.
var beginnerMessages = []string{
	"Starting your learning journey is often the hardest part, but you've already taken that crucial first step. Remember that every expert was once a beginner, and your willingness to begin sets you apart from many others. Take pride in your progress today and keep building momentum toward your academic goals!",
	"Your commitment to learning is truly impressive and shows great character. These early steps you're taking now build the foundation for all your future success and achievements. No matter what field you're studying, this dedication will serve you well throughout your entire academic and professional journey.",
	"Small steps every day add up to big results over time. Keep building your knowledge consistently!",
	"Every study session brings you closer to your goals. Your dedication today will open doors to opportunities tomorrow.",
}

var intermediateMessages = []string{
	"The consistent effort you're showing in your studies demonstrates real dedication and perseverance. This steady progress you're making is exactly how lasting expertise is built in any discipline or field. Your commitment to daily learning will compound over time and lead to remarkable achievements in your chosen area of study.",
	"Great job on your progress today! Remember that consistent small improvements compound into mastery over time.",
	"Persistence is the key to mastering complex technical topics. Your consistent effort is building a strong foundation for success.",
	"The effort you put into your studies today will shape your professional future tomorrow. Keep up the great work!",
}

var advancedMessages = []string{
	"The depth of knowledge you're building through your sustained commitment to learning is truly remarkable and inspiring. Few people achieve this level of dedication and consistency in their studies, which makes your efforts stand out significantly. This exceptional commitment will serve you well throughout your entire life and career, opening doors to opportunities you can't even imagine yet.",
	"Your commitment to learning is inspiring. Keep nurturing your technical skills, and you'll achieve remarkable results.",
	"Success in tech comes from consistent practice and problem-solving. You're building those skills every day!",
	"The road to becoming a great developer is built one study session at a time. You're making excellent progress!",
}

// Progress-tier thresholds (any one condition promotes).
const (
	advancedStreak     = 14
	advancedHours      = 50
	advancedTasks      = 30
	intermediateStreak = 5
	intermediateHours  = 20
	intermediateTasks  = 10
)
