package value

// Идентификаторы базовых классов каталога, с которыми работает рынок.
const (
	BaseClassItem             = "54009119af1c881c07000029"
	BaseClassWeapon           = "5422acb9af1c889c16000029"
	BaseClassArmor            = "5448e54d4bdc2dcc718b4568"
	BaseClassArmoredEquipment = "57bef4c42459772e8d35a53b"
	BaseClassHeadwear         = "5a341c4086f77401f2541505"
	BaseClassVest             = "5448e5284bdc2dcb718b4567"
	BaseClassMod              = "5448fe124bdc2da5018b4567"
	BaseClassMeds             = "543be5664bdc2dd4348b4569"
	BaseClassMedKit           = "5448f39d4bdc2d0a728b4568"
	BaseClassFoodDrink        = "543be6674bdc2df1348b4569"
	BaseClassFood             = "5448e8d04bdc2ddf718b4569"
	BaseClassDrink            = "5448e8d64bdc2dce718b4568"
	BaseClassKey              = "543be5e94bdc2df1348b4568"
	BaseClassKeyMechanical    = "5c99f98d86f7745c314214b3"
	BaseClassKeycard          = "5c164d2286f774194c5e69fa"
	BaseClassRepairKits       = "616eb7aea207f41933308f46"
	BaseClassFuel             = "5d650c3e815116009f6201d2"
	BaseClassMoney            = "543be5dd4bdc2deb348b4569"
	BaseClassAmmo             = "5485a8684bdc2da71d8b4567"
	BaseClassAmmoBox          = "543be5cb4bdc2deb348b4568"
	BaseClassBarterItem       = "5448eb774bdc2d0a728b4567"
	BaseClassInfo             = "5448ecbe4bdc2d60728b4568"
)

// FenceID торговец с собственным циклом частичного обновления ассортимента.
const FenceID = "579dc571d53a0658a154fbec"

// SlotHideout слот, в котором лежат корневые предметы ассортимента торговца.
const SlotHideout = "hideout"
