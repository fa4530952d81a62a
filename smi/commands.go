package smi

// Outbound iViewX commands.
const (
	cmdCalParam      = "ET_CPA" // ET_CPA [param] [enable]
	cmdCalLevel      = "ET_LEV" // ET_LEV [level]
	cmdScreenSize    = "ET_CSZ" // ET_CSZ [xres] [yres]
	cmdDefaultPoints = "ET_DEF"
	cmdCalibrate     = "ET_CAL" // ET_CAL [points]
	cmdSave          = "ET_SAV" // ET_SAV "[path]"
	cmdRecord        = "ET_REC"
	cmdStop          = "ET_STP"
	cmdFormat        = "ET_FRM" // ET_FRM "[format]"
	cmdStartStream   = "ET_STR"
	cmdEndStream     = "ET_EST"
	cmdRemark        = "ET_REM" // ET_REM "[message]"
)

// Parameter slots for cmdCalParam.
const (
	paramWaitValid  = 0
	paramRandomize  = 1
	paramAutoAccept = 2
)

// calLevelMedium is the calibration check level sent during setup.
const calLevelMedium = 2

// Inbound event tags.
const (
	evPoint    = "ET_PNT" // ET_PNT [nr] [x] [y]
	evChange   = "ET_CHG" // ET_CHG [nr]
	evFinished = "ET_FIN"
	evSample   = "ET_SPL" // ET_SPL [x] [y] or [x1] [x2] [y1] [y2]
)
