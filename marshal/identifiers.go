// Copyright (C) 2024 BlueSkeye
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package marshal

// Standard identifiers shared by the driver and the engine. The ids
// are part of the wire format and must never be renumbered; gaps are
// ids retired or reserved on the other side of the interface.

// AttrContent is the pseudo-attribute labeling an element's text
// content in the XML encoding, where XML attribute iteration never
// returns it. The packed encoding has no content channel: there it is
// written and read as an ordinary attribute with id 1.
var AttrContent = NewAttrib("XMLcontent", 1)

var (
	AttrAlign           = NewAttrib("align", 2)
	AttrBigendian       = NewAttrib("bigendian", 3)
	AttrConstructor     = NewAttrib("constructor", 4)
	AttrDestructor      = NewAttrib("destructor", 5)
	AttrExtrapop        = NewAttrib("extrapop", 6)
	AttrFormat          = NewAttrib("format", 7)
	AttrHiddenretparm   = NewAttrib("hiddenretparm", 8)
	AttrID              = NewAttrib("id", 9)
	AttrIndex           = NewAttrib("index", 10)
	AttrIndirectstorage = NewAttrib("indirectstorage", 11)
	AttrMetatype        = NewAttrib("metatype", 12)
	AttrModel           = NewAttrib("model", 13)
	AttrName            = NewAttrib("name", 14)
	AttrNamelock        = NewAttrib("namelock", 15)
	AttrOffset          = NewAttrib("offset", 16)
	AttrReadonly        = NewAttrib("readonly", 17)
	AttrRef             = NewAttrib("ref", 18)
	AttrSize            = NewAttrib("size", 19)
	AttrSpace           = NewAttrib("space", 20)
	AttrThisptr         = NewAttrib("thisptr", 21)
	AttrType            = NewAttrib("type", 22)
	AttrTypelock        = NewAttrib("typelock", 23)
	AttrVal             = NewAttrib("val", 24)
	AttrValue           = NewAttrib("value", 25)
	AttrWordsize        = NewAttrib("wordsize", 26)
	AttrFirst           = NewAttrib("first", 27)
	AttrLast            = NewAttrib("last", 28)
	AttrUniq            = NewAttrib("uniq", 29)
	AttrCode            = NewAttrib("code", 43)
	AttrContain         = NewAttrib("contain", 44)
	AttrDefaultspace    = NewAttrib("defaultspace", 45)
	AttrUniqbase        = NewAttrib("uniqbase", 46)
	AttrAltindex        = NewAttrib("altindex", 75)
	AttrDepth           = NewAttrib("depth", 76)
	AttrEnd             = NewAttrib("end", 77)
	AttrOpcode          = NewAttrib("opcode", 78)
	AttrRev             = NewAttrib("rev", 79)
	AttrBase            = NewAttrib("base", 89)
	AttrDeadcodedelay   = NewAttrib("deadcodedelay", 90)
	AttrDelay           = NewAttrib("delay", 91)
	AttrLogicalsize     = NewAttrib("logicalsize", 92)
	AttrPhysical        = NewAttrib("physical", 93)
	AttrAdjustvma       = NewAttrib("adjustvma", 103)
	AttrEnable          = NewAttrib("enable", 104)
	AttrGroup           = NewAttrib("group", 105)
	AttrGrowth          = NewAttrib("growth", 106)
	AttrKey             = NewAttrib("key", 107)
	AttrLoadersymbols   = NewAttrib("loadersymbols", 108)
	AttrParent          = NewAttrib("parent", 109)
	AttrRegister        = NewAttrib("register", 110)
	AttrReversejustify  = NewAttrib("reversejustify", 111)
	AttrSignext         = NewAttrib("signext", 112)
	AttrStyle           = NewAttrib("style", 113)
	AttrAddress         = NewAttrib("address", 148)
)

// AttrPiece is the base of the indexed attribute run "piece1",
// "piece2", ... written with WriteStringIndexed; ids 94 through 102
// are reserved for it.
var AttrPiece = NewAttrib("piece", 94)

var (
	ElemData          = NewElem("data", 1)
	ElemInput         = NewElem("input", 2)
	ElemOff           = NewElem("off", 3)
	ElemOutput        = NewElem("output", 4)
	ElemReturnaddress = NewElem("returnaddress", 5)
	ElemSymbol        = NewElem("symbol", 6)
	ElemTarget        = NewElem("target", 7)
	ElemVal           = NewElem("val", 8)
	ElemValue         = NewElem("value", 9)
	ElemVoid          = NewElem("void", 10)
	ElemAddr          = NewElem("addr", 11)
	ElemRange         = NewElem("range", 12)
	ElemRangelist     = NewElem("rangelist", 13)
	ElemRegister      = NewElem("register", 14)
	ElemSeqnum        = NewElem("seqnum", 15)
	ElemVarnode       = NewElem("varnode", 16)
	ElemBreak         = NewElem("break", 17)
	ElemClangDocument = NewElem("clang_document", 18)
	ElemFuncname      = NewElem("funcname", 19)
	ElemFuncproto     = NewElem("funcproto", 20)
	ElemLabel         = NewElem("label", 21)
	ElemReturnType    = NewElem("return_type", 22)
	ElemStatement     = NewElem("statement", 23)
	ElemSyntax        = NewElem("syntax", 24)
	ElemVardecl       = NewElem("vardecl", 25)
	ElemVariable      = NewElem("variable", 26)
	ElemOp            = NewElem("op", 27)
	ElemSleigh        = NewElem("sleigh", 28)
	ElemSpace         = NewElem("space", 29)
	ElemSpaceid       = NewElem("spaceid", 30)
	ElemSpaces        = NewElem("spaces", 31)
	ElemSpaceBase     = NewElem("space_base", 32)
	ElemSpaceOther    = NewElem("space_other", 33)
	ElemSpaceOverlay  = NewElem("space_overlay", 34)
	ElemSpaceUnique   = NewElem("space_unique", 35)
	ElemTruncateSpace = NewElem("truncate_space", 36)
	ElemCoretypes     = NewElem("coretypes", 41)
	ElemDataOrg       = NewElem("data_organization", 42)
	ElemDef           = NewElem("def", 43)
	ElemEntry         = NewElem("entry", 47)
	ElemEnum          = NewElem("enum", 48)
	ElemField         = NewElem("field", 49)
	ElemIntegerSize   = NewElem("integer_size", 51)
	ElemLongSize      = NewElem("long_size", 54)
	ElemSizeAlignMap  = NewElem("size_alignment_map", 59)
	ElemType          = NewElem("type", 60)
	ElemTypegrp       = NewElem("typegrp", 62)
	ElemTyperef       = NewElem("typeref", 63)
	ElemDb            = NewElem("db", 68)
	ElemHash          = NewElem("hash", 73)
	ElemHole          = NewElem("hole", 74)
	ElemMapsym        = NewElem("mapsym", 76)
	ElemParent        = NewElem("parent", 77)
	ElemScope         = NewElem("scope", 80)
	ElemSymbollist    = NewElem("symbollist", 81)
	ElemHigh          = NewElem("high", 82)
	ElemBytes         = NewElem("bytes", 83)
	ElemString        = NewElem("string", 84)
	ElemComment       = NewElem("comment", 86)
	ElemCommentdb     = NewElem("commentdb", 87)
	ElemText          = NewElem("text", 88)
	ElemAddrPcode     = NewElem("addr_pcode", 89)
	ElemBody          = NewElem("body", 90)
	ElemContext       = NewElem("context", 94)
	ElemInst          = NewElem("inst", 98)
	ElemPayload       = NewElem("payload", 99)
	ElemPcode         = NewElem("pcode", 100)
	ElemBhead         = NewElem("bhead", 102)
	ElemBlock         = NewElem("block", 103)
	ElemBlockedge     = NewElem("blockedge", 104)
	ElemEdge          = NewElem("edge", 105)
	ElemProto         = NewElem("proto", 107)
	ElemConstantpool  = NewElem("constantpool", 109)
	ElemCpoolrec      = NewElem("cpoolrec", 110)
	ElemRef           = NewElem("ref", 111)
	ElemToken         = NewElem("token", 112)
	ElemIop           = NewElem("iop", 113)
	ElemUnimpl        = NewElem("unimpl", 114)
	ElemAst           = NewElem("ast", 115)
	ElemFunction      = NewElem("function", 116)
	ElemHighlist      = NewElem("highlist", 117)
	ElemVarnodes      = NewElem("varnodes", 119)
	ElemContextData   = NewElem("context_data", 120)
	ElemContextPoints = NewElem("context_points", 121)
	ElemSet           = NewElem("set", 124)
	ElemGlobal        = NewElem("global", 142)
)
